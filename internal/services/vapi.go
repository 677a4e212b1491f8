package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/logger"
)

// Call statuses reported by the voice platform.
const (
	CallStatusQueued     = "queued"
	CallStatusInProgress = "in-progress"
	CallStatusForwarding = "forwarding"
	CallStatusEnded      = "ended"
)

type Call struct {
	ID           string        `json:"id"`
	AssistantID  string        `json:"assistantId,omitempty"`
	Type         string        `json:"type,omitempty"`
	Status       string        `json:"status"`
	Transcript   string        `json:"transcript,omitempty"`
	RecordingURL string        `json:"recordingUrl,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	EndedReason  string        `json:"endedReason,omitempty"`
	StartedAt    *time.Time    `json:"startedAt,omitempty"`
	EndedAt      *time.Time    `json:"endedAt,omitempty"`
	Artifact     *CallArtifact `json:"artifact,omitempty"`
}

type CallArtifact struct {
	Transcript   string `json:"transcript,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}

// TranscriptText prefers the top-level transcript and falls back to the artifact.
func (c *Call) TranscriptText() string {
	if c.Transcript != "" || c.Artifact == nil {
		return c.Transcript
	}
	return c.Artifact.Transcript
}

func (c *Call) Recording() string {
	if c.RecordingURL != "" || c.Artifact == nil {
		return c.RecordingURL
	}
	return c.Artifact.RecordingURL
}

// DurationSeconds is derived from the call timestamps, zero when either is missing.
func (c *Call) DurationSeconds() float64 {
	if c.StartedAt == nil || c.EndedAt == nil {
		return 0
	}
	return c.EndedAt.Sub(*c.StartedAt).Seconds()
}

// RequestError is a non-2xx answer from the voice platform.
type RequestError struct {
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return "vapi request failed: " + e.Status
}

func (e *RequestError) Unwrap() error {
	return ErrUpstreamUnavailable
}

func (e *RequestError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type VapiClient interface {
	CreateAssistant(ctx context.Context, assistant Assistant) (string, error)
	StartCall(ctx context.Context, assistantID, customerNumber string) (*Call, error)
	GetCall(ctx context.Context, callID string) (*Call, error)
	EndCall(ctx context.Context, callID string) error
	ListCalls(ctx context.Context) ([]Call, error)
}

type vapiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

func NewVapiClient(cfg config.VapiConfig, upstream config.UpstreamConfig, log *zap.Logger) VapiClient {
	return &vapiClient{
		httpClient: &http.Client{Timeout: upstream.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: upstream.MaxRetries,
		backoff:    500 * time.Millisecond,
		log:        logger.WithFields(log, zap.String("provider", "vapi")),
	}
}

func (c *vapiClient) CreateAssistant(ctx context.Context, assistant Assistant) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/assistant", assistant, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", unavailable("vapi returned an assistant without id")
	}
	return out.ID, nil
}

type startCallBody struct {
	AssistantID string    `json:"assistantId"`
	Customer    *customer `json:"customer,omitempty"`
	Type        string    `json:"type"`
}

type customer struct {
	Number string `json:"number"`
}

func (c *vapiClient) StartCall(ctx context.Context, assistantID, customerNumber string) (*Call, error) {
	body := startCallBody{AssistantID: assistantID, Type: "webCall"}
	if customerNumber != "" {
		body.Customer = &customer{Number: customerNumber}
		body.Type = "outboundPhoneCall"
	}

	var call Call
	if err := c.do(ctx, http.MethodPost, "/call", body, &call); err != nil {
		return nil, err
	}
	if call.ID == "" {
		return nil, unavailable("vapi returned a call without id")
	}
	return &call, nil
}

func (c *vapiClient) GetCall(ctx context.Context, callID string) (*Call, error) {
	var call Call
	if err := c.do(ctx, http.MethodGet, "/call/"+url.PathEscape(callID), nil, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

func (c *vapiClient) EndCall(ctx context.Context, callID string) error {
	return c.do(ctx, http.MethodDelete, "/call/"+url.PathEscape(callID), nil, nil)
}

func (c *vapiClient) ListCalls(ctx context.Context) ([]Call, error) {
	var calls []Call
	if err := c.do(ctx, http.MethodGet, "/call", nil, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

// do sends one logical request, retrying transport failures and 5xx/429
// answers up to maxRetries extra times.
func (c *vapiClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	if c.apiKey == "" {
		return unavailable("vapi api key not configured")
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode vapi request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying vapi request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return fmt.Errorf("vapi request cancelled: %w", ctx.Err())
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		retry, err := c.attempt(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return lastErr
}

func (c *vapiClient) attempt(ctx context.Context, method, path string, payload []byte, out interface{}) (bool, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("failed to build vapi request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("vapi request cancelled: %w", ctx.Err())
		}
		// The URL can carry user input but never the key, which lives in a header.
		return true, fmt.Errorf("vapi request failed: %v: %w", transportCause(err), ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		reqErr := &RequestError{StatusCode: resp.StatusCode, Status: statusText(resp)}
		return reqErr.retryable(), reqErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to decode vapi response: %v: %w", err, ErrUpstreamUnavailable)
	}
	return false, nil
}

// statusText mirrors the reason phrase without the numeric prefix.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
