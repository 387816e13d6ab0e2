// Package filesource reads raw statement text from a local path or a GCS
// URI. The engine itself never interprets the location; callers pass whatever
// the user supplied and Read picks the backend.
package filesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Read returns the statement bytes at the given location. Locations starting
// with "gs://" are fetched from Google Cloud Storage, everything else is
// treated as a local file path.
func Read(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "gs://") {
		return fetchFromGCS(ctx, location)
	}
	return readLocal(location)
}

func readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement file %q: %w", path, err)
	}
	return data, nil
}

// fetchFromGCS downloads the object bytes from the given GCS URI. Assumes
// Application Default Credentials are configured.
func fetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}

	bucketName := parts[0]
	objectPath := parts[1]

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucketName, objectPath, err)
	}

	return data, nil
}
