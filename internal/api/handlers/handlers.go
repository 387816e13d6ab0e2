// Package handlers implements the HTTP endpoints of the risk radar API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/risk-radar/internal/api/middleware"
	"github.com/dvloznov/risk-radar/internal/budget"
	"github.com/dvloznov/risk-radar/internal/domain"
	"github.com/dvloznov/risk-radar/internal/insights"
	"github.com/dvloznov/risk-radar/internal/normalize"
	"github.com/dvloznov/risk-radar/internal/pipeline"
	"github.com/dvloznov/risk-radar/internal/statestore"
)

// StatementsHandler handles statement upload and analysis.
type StatementsHandler struct {
	engine *pipeline.Engine
	log    zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(engine *pipeline.Engine, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{engine: engine, log: log}
}

// AnalyzeStatement handles POST /api/statements. The request body is the raw
// statement text.
func (h *StatementsHandler) AnalyzeStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	profile, err := h.engine.AnalyzeStatement(ctx, string(body))
	if errors.Is(err, normalize.ErrNoValidTransactions) {
		middleware.WriteError(w, http.StatusBadRequest, "No valid transactions found in CSV.")
		return
	}
	if errors.Is(err, insights.ErrAnalysisInFlight) {
		middleware.WriteError(w, http.StatusConflict, "An analysis cycle is already running")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Analysis cycle failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to analyze statement")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, profile)
}

// TransactionsHandler handles transaction queries.
type TransactionsHandler struct {
	store *statestore.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store *statestore.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, log: log}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.LoadTransactions(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// BudgetHandler handles budget goal reads and edits.
type BudgetHandler struct {
	store *statestore.Store
	log   zerolog.Logger
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(store *statestore.Store, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{store: store, log: log}
}

// GetBudget handles GET /api/budget
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	goal, err := h.store.LoadBudgetGoal(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load budget goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load budget goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goal)
}

// UpdateBudget handles PUT /api/budget. Edits arrive as raw strings; an
// unusable total limit leaves the stored goal untouched and the retained
// goal is returned with 200.
func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var edit budget.GoalEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	current, err := h.store.LoadBudgetGoal(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load budget goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load budget goal")
		return
	}

	updated := budget.UpdateGoal(current, edit)
	if err := h.store.SaveBudgetGoal(ctx, updated); err != nil {
		h.log.Error().Err(err).Msg("Failed to save budget goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save budget goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// ProfileHandler rebuilds the local risk profile from persisted state.
type ProfileHandler struct {
	engine *pipeline.Engine
	log    zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(engine *pipeline.Engine, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{engine: engine, log: log}
}

// GetProfile handles GET /api/profile. No oracle call is made; the response
// carries local aggregates and budget progress only.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.engine.Profile(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, profile)
}

// SessionHandler persists and clears the opaque user record.
type SessionHandler struct {
	store *statestore.Store
	log   zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store *statestore.Store, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

// CreateSession handles POST /api/session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if user.Email == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.store.SaveUser(r.Context(), user); err != nil {
		h.log.Error().Err(err).Msg("Failed to save user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save user")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, user)
}

// DeleteSession handles DELETE /api/session. Logout drops the user record,
// the transaction set and the budget goal; the theme preference stays.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearSession(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ThemeHandler stores the UI theme preference as an opaque string.
type ThemeHandler struct {
	store *statestore.Store
	log   zerolog.Logger
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(store *statestore.Store, log zerolog.Logger) *ThemeHandler {
	return &ThemeHandler{store: store, log: log}
}

// GetTheme handles GET /api/theme
func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.LoadTheme(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load theme")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load theme")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

// UpdateTheme handles PUT /api/theme
func (h *ThemeHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SaveTheme(r.Context(), req.Theme); err != nil {
		h.log.Error().Err(err).Msg("Failed to save theme")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save theme")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
