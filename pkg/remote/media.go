package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// ErrNoReference is returned when an upload succeeds but the server does not
// name the stored file.
var ErrNoReference = errors.New("remote: upload response has no reference")

// MediaClient uploads files as multipart form data and returns the reference
// under which the server stored them. It implements interfaces.MediaUploader.
type MediaClient struct {
	client
	field string
}

var _ interfaces.MediaUploader = (*MediaClient)(nil)

// NewMediaClient creates a client that uploads to endpoint.
func NewMediaClient(endpoint, token string, opts ...Option) *MediaClient {
	return &MediaClient{client: newClient(endpoint, token, opts), field: "file"}
}

// NewMediaClientFromEnv creates a MediaClient from MJOP_MEDIA_URL and the
// token in tokenEnv (MJOP_TOKEN when empty).
func NewMediaClientFromEnv(tokenEnv string, opts ...Option) (*MediaClient, error) {
	endpoint, token, err := fromEnv(EnvMediaURL, tokenEnv)
	if err != nil {
		return nil, err
	}
	return NewMediaClient(endpoint, token, opts...), nil
}

type uploadResponse struct {
	Ref  string `json:"ref"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Upload sends the content of r under the given file name. The returned
// reference is opaque and meant for the AttachMedia action.
func (m *MediaClient) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(m.field, filepath.Base(name))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("remote: creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := m.do(ctx, req, "uploading "+filepath.Base(name))
	if err != nil {
		pr.Close()
		return "", err
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("remote: decoding upload response: %w", err)
	}
	for _, ref := range []string{out.Ref, out.URL, out.Path} {
		if ref != "" {
			return ref, nil
		}
	}
	return "", ErrNoReference
}
