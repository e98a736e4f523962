package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase stores listing media in a public Supabase Storage bucket over its HTTP API.
type Supabase struct {
	BaseURL   string
	SecretKey string
	Bucket    string
	Client    *http.Client
}

// Configured reports whether uploads can be attempted.
func (s *Supabase) Configured() bool {
	return s != nil && s.BaseURL != "" && s.SecretKey != "" && s.Bucket != ""
}

// NewSupabase returns a client with its own HTTP client set, so requests never
// write to the shared value.
func NewSupabase(baseURL, secretKey, bucket string) *Supabase {
	return &Supabase{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		Bucket:    bucket,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

func (s *Supabase) httpClient() *http.Client {
	if s.Client == nil {
		return defaultClient
	}
	return s.Client
}

func (s *Supabase) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}

// PublicURL is where a stored object is served from.
func (s *Supabase) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.base(), s.Bucket, path)
}

// Upload writes data at path and returns its public URL.
func (s *Supabase) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("supabase: SUPABASE_URL, SUPABASE_SECRET_KEY and MEDIA_BUCKET must be set")
	}
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.base(), s.Bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")
	req.Header.Set("Cache-Control", "max-age=3600")

	if err := s.do(req); err != nil {
		return "", err
	}
	return s.PublicURL(path), nil
}

// Remove deletes objects by path; missing objects are not an error.
func (s *Supabase) Remove(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if !s.Configured() {
		return fmt.Errorf("supabase: storage is not configured")
	}
	body, _ := json.Marshal(map[string][]string{"prefixes": paths})
	url := fmt.Sprintf("%s/storage/v1/object/%s", s.base(), s.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// Same headers as @supabase/supabase-js: apikey and Bearer carry the service_role key.
func (s *Supabase) authorize(req *http.Request) {
	req.Header.Set("apikey", s.SecretKey)
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
}

func (s *Supabase) do(req *http.Request) error {
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyStr := string(respBody)
	// Invalid Compact JWS means the anon key was sent instead of service_role.
	if (resp.StatusCode == 400 || resp.StatusCode == 403) && strings.Contains(bodyStr, "Invalid Compact JWS") {
		return fmt.Errorf("supabase storage requires the service_role key in SUPABASE_SECRET_KEY (body: %s)", bodyStr)
	}
	return fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
}

// Ping checks that the bucket is reachable with the configured key.
func (s *Supabase) Ping(ctx context.Context) error {
	if !s.Configured() {
		return fmt.Errorf("supabase: storage is not configured")
	}
	url := fmt.Sprintf("%s/storage/v1/bucket/%s", s.base(), s.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	s.authorize(req)
	return s.do(req)
}
