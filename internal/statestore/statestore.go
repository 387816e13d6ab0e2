// Package statestore persists the four application records (user identity,
// transaction set, budget goal, and theme preference) behind a plain
// key/value contract. Every record is wholesale-replaced on save, never
// patched; the engine itself stays stateless and only exchanges snapshots
// with this store.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// Storage keys for the four records.
const (
	keyUser         = "fin_risk_radar_user"
	keyTransactions = "fin_risk_radar_transactions"
	keyBudget       = "fin_risk_radar_budget"
	keyTheme        = "fin_risk_radar_theme"
)

// kv is the minimal backend contract: get/set/delete of opaque string
// values. Implementations must be safe for concurrent use.
type kv interface {
	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, value string) error
	delete(ctx context.Context, key string) error
	close() error
}

// Store exposes typed snapshot accessors over a kv backend.
type Store struct {
	backend kv
}

// SaveTransactions replaces the persisted transaction set.
func (s *Store) SaveTransactions(ctx context.Context, txs []domain.Transaction) error {
	return s.saveJSON(ctx, keyTransactions, txs)
}

// LoadTransactions returns the persisted transaction set, or an empty slice
// when none has been saved yet.
func (s *Store) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	found, err := s.loadJSON(ctx, keyTransactions, &txs)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Transaction{}, nil
	}
	return txs, nil
}

// SaveBudgetGoal replaces the persisted budget goal.
func (s *Store) SaveBudgetGoal(ctx context.Context, goal domain.BudgetGoal) error {
	return s.saveJSON(ctx, keyBudget, goal)
}

// LoadBudgetGoal returns the persisted goal, or the system default when none
// has been saved.
func (s *Store) LoadBudgetGoal(ctx context.Context) (domain.BudgetGoal, error) {
	var goal domain.BudgetGoal
	found, err := s.loadJSON(ctx, keyBudget, &goal)
	if err != nil {
		return domain.BudgetGoal{}, err
	}
	if !found {
		return domain.DefaultBudgetGoal(), nil
	}
	if goal.CategoryLimits == nil {
		goal.CategoryLimits = map[string]float64{}
	}
	return goal, nil
}

// SaveUser replaces the persisted user identity record.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	return s.saveJSON(ctx, keyUser, user)
}

// LoadUser returns the persisted user, or nil when nobody is signed in.
func (s *Store) LoadUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, err := s.loadJSON(ctx, keyUser, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// ClearSession removes the user record together with the transaction set and
// budget goal, so the next LoadBudgetGoal reports the default again. The
// theme preference survives a logout.
func (s *Store) ClearSession(ctx context.Context) error {
	for _, key := range []string{keyUser, keyTransactions, keyBudget} {
		if err := s.backend.delete(ctx, key); err != nil {
			return fmt.Errorf("clear session: delete %s: %w", key, err)
		}
	}
	return nil
}

// SaveTheme replaces the theme preference. The value is opaque to this
// engine.
func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.backend.set(ctx, keyTheme, theme)
}

// LoadTheme returns the persisted theme, or empty when unset.
func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	v, _, err := s.backend.get(ctx, keyTheme)
	return v, err
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.close()
}

func (s *Store) saveJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.backend.set(ctx, key, string(data))
}

func (s *Store) loadJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, found, err := s.backend.get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
