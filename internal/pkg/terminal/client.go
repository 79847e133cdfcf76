// Package terminal talks to biometric terminals over their HTTP API. The
// engine only ever sees the Client interface; the sync service normalizes
// transport failures to punch.ErrTerminalUnavailable.
package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RawPunch is one scan event as the terminal reports it. Timestamp stays a
// string here: the ingestor owns validation and rejects unparseable rows
// without aborting the batch.
type RawPunch struct {
	SubjectID string `json:"subject_id"`
	Timestamp string `json:"timestamp"`
	DeviceID  string `json:"device_id"`
}

// Subject is a person enrolled on the terminal.
type Subject struct {
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
}

type Client interface {
	// FetchPunchesSince returns all punches recorded strictly after the
	// given instant. A zero instant fetches everything the device holds.
	FetchPunchesSince(ctx context.Context, deviceID string, since time.Time) ([]RawPunch, error)

	// FetchKnownSubjects returns the device's enrollment roster.
	FetchKnownSubjects(ctx context.Context, deviceID string) ([]Subject, error)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) FetchPunchesSince(ctx context.Context, deviceID string, since time.Time) ([]RawPunch, error) {
	endpoint := fmt.Sprintf("%s/devices/%s/punches", c.baseURL, url.PathEscape(deviceID))
	if !since.IsZero() {
		endpoint += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	var punches []RawPunch
	if err := c.getJSON(ctx, endpoint, &punches); err != nil {
		return nil, err
	}
	return punches, nil
}

func (c *HTTPClient) FetchKnownSubjects(ctx context.Context, deviceID string) ([]Subject, error) {
	endpoint := fmt.Sprintf("%s/devices/%s/subjects", c.baseURL, url.PathEscape(deviceID))

	var subjects []Subject
	if err := c.getJSON(ctx, endpoint, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build terminal request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("terminal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("terminal responded with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode terminal response: %w", err)
	}
	return nil
}

// HashPushKey hashes a device push key for storage.
func HashPushKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash push key: %w", err)
	}
	return string(hash), nil
}

// VerifyPushKey checks a presented push key against its stored hash.
func VerifyPushKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
