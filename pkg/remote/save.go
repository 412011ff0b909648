package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// SaveClient persists snapshots by POSTing them as JSON to an endpoint.
// It implements interfaces.SnapshotSaver.
type SaveClient struct {
	client
}

var _ interfaces.SnapshotSaver = (*SaveClient)(nil)

// NewSaveClient creates a client that posts snapshots to endpoint.
// An empty token sends no Authorization header.
func NewSaveClient(endpoint, token string, opts ...Option) *SaveClient {
	return &SaveClient{client: newClient(endpoint, token, opts)}
}

// NewSaveClientFromEnv creates a SaveClient from MJOP_SAVE_URL and the token
// in tokenEnv (MJOP_TOKEN when empty).
func NewSaveClientFromEnv(tokenEnv string, opts ...Option) (*SaveClient, error) {
	endpoint, token, err := fromEnv(EnvSaveURL, tokenEnv)
	if err != nil {
		return nil, err
	}
	return NewSaveClient(endpoint, token, opts...), nil
}

// Save posts the snapshot. Any 2xx response is success.
func (s *SaveClient) Save(ctx context.Context, snap *interfaces.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("remote: marshaling snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("remote: creating save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(ctx, req, "saving snapshot")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
