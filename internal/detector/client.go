package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// AnonymousReporter is the reporter name used for anonymous uploads.
const AnonymousReporter = "AnonymousUser"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Predictor looks up a player's classification.
type Predictor interface {
	Predict(ctx context.Context, name rsn.Name) (model.Prediction, error)
}

// StatsFetcher fetches a reporter's contribution stats. A nil result with a
// nil error means the service has no stats for the player.
type StatsFetcher interface {
	FetchStats(ctx context.Context, name rsn.Name) (*model.PlayerStats, error)
}

// Uploader sends sighted names to the service and returns how many were
// accepted.
type Uploader interface {
	UploadNames(ctx context.Context, reporter string, sightings []model.Sighting) (int, error)
}

// Config configures a Client.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	AuthToken  string
	Retry      common.RetryOptions
	Timeout    time.Duration
}

// Client talks to the detector HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
	retry      common.RetryOptions
}

// NewClient creates a detector client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: detector base URL is required", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  cfg.AuthToken,
		retry:      cfg.Retry,
	}, nil
}

// Predict requests the classification for name. It makes exactly one
// request; failures are *LookupError.
func (c *Client) Predict(ctx context.Context, name rsn.Name) (model.Prediction, error) {
	const op = "predict"

	status, body, err := c.do(ctx, http.MethodGet, "/site/prediction/"+url.PathEscape(name.String()), nil, nil)
	if err != nil {
		return model.Prediction{}, &LookupError{Op: op, Kind: KindNetwork, Err: err}
	}
	if status < 200 || status > 299 {
		return model.Prediction{}, badStatus(op, status, body)
	}

	prediction, err := parsePrediction(body)
	if err != nil {
		return model.Prediction{}, &LookupError{Op: op, Kind: KindMalformedPayload, Err: err}
	}
	if prediction.PlayerName == "" {
		prediction.PlayerName = name.String()
	}
	return prediction, nil
}

// FetchStats returns the contribution stats for name, or nil when the
// service has none. Network and server errors are retried.
func (c *Client) FetchStats(ctx context.Context, name rsn.Name) (*model.PlayerStats, error) {
	const op = "stats"

	var result *model.PlayerStats
	err := common.WithRetry(ctx, func() error {
		status, body, err := c.do(ctx, http.MethodGet, "/stats/contributions/"+url.PathEscape(name.String()), nil, nil)
		if err != nil {
			return retryable(&LookupError{Op: op, Kind: KindNetwork, Err: err})
		}
		if status == http.StatusNotFound {
			result = nil
			return nil
		}
		if status < 200 || status > 299 {
			return retryable(badStatus(op, status, body))
		}

		stats, err := parseStats(body)
		if err != nil {
			return retryable(&LookupError{Op: op, Kind: KindMalformedPayload, Err: err})
		}
		result = stats
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}
	return result, nil
}

type sightingPayload struct {
	Reporter  string `json:"reporter"`
	Reported  string `json:"reported"`
	Timestamp int64  `json:"ts"`
}

// UploadNames posts sightings on behalf of reporter. An empty reporter
// uploads anonymously.
func (c *Client) UploadNames(ctx context.Context, reporter string, sightings []model.Sighting) (int, error) {
	const op = "upload"

	if len(sightings) == 0 {
		return 0, nil
	}
	anonymous := reporter == "" || reporter == AnonymousReporter
	if anonymous {
		reporter = AnonymousReporter
	}

	payload := make([]sightingPayload, 0, len(sightings))
	for _, s := range sightings {
		payload = append(payload, sightingPayload{
			Reporter:  reporter,
			Reported:  s.Name,
			Timestamp: s.SeenAt.Unix(),
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal sightings: %w", err)
	}

	batchID := uuid.New().String()
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Batch-ID":   batchID,
	}

	path := uploadPath(anonymous)
	err = common.WithRetry(ctx, func() error {
		status, respBody, err := c.do(ctx, http.MethodPost, path, body, headers)
		if err != nil {
			return retryable(&LookupError{Op: op, Kind: KindNetwork, Err: err})
		}
		if status < 200 || status > 299 {
			return retryable(badStatus(op, status, respBody))
		}
		return nil
	}, c.retry)
	if err != nil {
		return 0, err
	}

	slog.Debug("Uploaded sightings", "batch_id", batchID, "count", len(sightings), "anonymous", anonymous)
	return len(sightings), nil
}

// uploadPath flags anonymous batches in the final path segment.
func uploadPath(anonymous bool) string {
	if anonymous {
		return "/plugin/detect/1"
	}
	return "/plugin/detect/0"
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Token", c.authToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func retryable(err *LookupError) error {
	return &common.RetryableError{Err: err, Retryable: err.Retryable()}
}

// badStatus builds the error for a non-2xx response. A 429 wraps
// common.ErrRateLimit so retries back off to the maximum delay.
func badStatus(op string, status int, body []byte) *LookupError {
	detail := statusDetail(body)
	if status == http.StatusTooManyRequests {
		if detail == nil {
			detail = common.ErrRateLimit
		} else {
			detail = fmt.Errorf("%w: %w", common.ErrRateLimit, detail)
		}
	}
	return &LookupError{Op: op, Kind: KindBadStatus, StatusCode: status, Err: detail}
}

func statusDetail(body []byte) error {
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return nil
	}
	if d := gjson.Get(detail, "detail"); d.Type == gjson.String {
		detail = d.String()
	}
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return errors.New(detail)
}
