package detector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:   server.URL + "/api/",
		AuthToken: "test-token",
		Retry:     common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	client, err := NewClient(Config{BaseURL: "https://example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestPredict_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/site/prediction/Lynx Titan", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("Token"))
		_, _ = io.WriteString(w, `{
			"player_id": 42,
			"player_name": "Lynx Titan",
			"prediction_label": "Real_Player",
			"prediction_confidence": 0.91,
			"predictions_breakdown": {"Real_Player": 0.91, "Fishing_bot": 0.05, "Mining_bot": 0.05}
		}`)
	})

	got, err := client.Predict(context.Background(), "Lynx Titan")
	require.NoError(t, err)

	assert.Equal(t, int64(42), got.PlayerID)
	assert.Equal(t, "Lynx Titan", got.PlayerName)
	assert.Equal(t, "Real_Player", got.Label)
	assert.InDelta(t, 0.91, got.Confidence, 1e-9)
	assert.Equal(t, model.Breakdown{
		{Label: "Real_Player", Score: 0.91},
		{Label: "Fishing_bot", Score: 0.05},
		{Label: "Mining_bot", Score: 0.05},
	}, got.Breakdown)
}

func TestPredict_NoBreakdown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"prediction_label": "Stats_Too_Low", "prediction_confidence": 1, "predictions_breakdown": null}`)
	})

	got, err := client.Predict(context.Background(), "Zezima")
	require.NoError(t, err)
	assert.Equal(t, "Zezima", got.PlayerName, "falls back to the requested name")
	assert.Empty(t, got.Breakdown)
}

func TestPredict_Failures(t *testing.T) {
	tests := []struct {
		handler  http.HandlerFunc
		wantErr  error
		name     string
		wantCode int
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, `{"detail": "upstream down"}`)
			},
			wantErr:  ErrBadStatus,
			wantCode: http.StatusBadGateway,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `<html>oops</html>`)
			},
			wantErr: ErrMalformedPayload,
		},
		{
			name: "missing label",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"prediction_confidence": 0.4}`)
			},
			wantErr: ErrMalformedPayload,
		},
		{
			name: "non numeric breakdown",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"prediction_label": "Real_Player", "prediction_confidence": 0.4, "predictions_breakdown": {"Real_Player": "high"}}`)
			},
			wantErr: ErrMalformedPayload,
		},
		{
			name: "breakdown is a list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"prediction_label": "Real_Player", "prediction_confidence": 0.4, "predictions_breakdown": [0.4]}`)
			},
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.Predict(context.Background(), "Zezima")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var lookupErr *LookupError
			require.True(t, errors.As(err, &lookupErr))
			assert.Equal(t, tt.wantCode, lookupErr.StatusCode)
		})
	}
}

func TestPredict_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), "Zezima")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrBadStatus)
}

func TestPredict_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Predict(context.Background(), "Zezima")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchStats(t *testing.T) {
	tests := []struct {
		want    *model.PlayerStats
		name    string
		body    string
		status  int
		wantErr bool
	}{
		{name: "stats", status: http.StatusOK, body: `{"reports": 3, "bans": 1, "possible_bans": 2}`, want: &model.PlayerStats{Reports: 3, Bans: 1, PossibleBans: 2}},
		{name: "zero stats", status: http.StatusOK, body: `{"reports": 0, "bans": 0, "possible_bans": 0}`, want: &model.PlayerStats{}},
		{name: "not found", status: http.StatusNotFound, want: nil},
		{name: "empty body", status: http.StatusOK, body: ``, want: nil},
		{name: "null", status: http.StatusOK, body: `null`, want: nil},
		{name: "negative", status: http.StatusOK, body: `{"reports": -1}`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/stats/contributions/Zezima", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := client.FetchStats(context.Background(), "Zezima")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchStats_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"reports": 9}`)
	})

	got, err := client.FetchStats(context.Background(), "Zezima")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Reports)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchStats_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchStats(context.Background(), "Zezima")
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchStats_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"slow down"}`))
	})

	_, err := client.FetchStats(context.Background(), "Zezima")
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.ErrorIs(t, err, common.ErrRateLimit)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Contains(t, err.Error(), "slow down")
	assert.Equal(t, int32(2), calls.Load())
}

func TestUploadNames(t *testing.T) {
	seen := time.Unix(1700000000, 0)
	var got []sightingPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/plugin/detect/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Batch-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	n, err := client.UploadNames(context.Background(), "", []model.Sighting{
		{Name: "Zezima", SeenAt: seen},
		{Name: "Woox", SeenAt: seen},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, got, 2)
	assert.Equal(t, sightingPayload{Reporter: AnonymousReporter, Reported: "Zezima", Timestamp: 1700000000}, got[0])
}

func TestUploadNames_NamedReporter(t *testing.T) {
	var got []sightingPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plugin/detect/0", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	n, err := client.UploadNames(context.Background(), "Lynx Titan", []model.Sighting{{Name: "Woox"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, got, 1)
	assert.Equal(t, "Lynx Titan", got[0].Reporter)
}

func TestUploadNames_Empty(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	n, err := client.UploadNames(context.Background(), "Zezima", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUploadNames_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	n, err := client.UploadNames(context.Background(), "Zezima", []model.Sighting{{Name: "Woox"}})
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Zero(t, n)
}

func TestLookupError_Message(t *testing.T) {
	err := &LookupError{Op: "predict", Kind: KindBadStatus, StatusCode: 502, Err: errors.New("upstream down")}
	assert.Equal(t, "predict: detector returned an error status (status 502): upstream down", err.Error())
	assert.True(t, err.Retryable())
	assert.False(t, (&LookupError{Kind: KindMalformedPayload}).Retryable())
	assert.False(t, (&LookupError{Kind: KindBadStatus, StatusCode: 404}).Retryable())
	assert.True(t, badStatus("stats", http.StatusTooManyRequests, nil).Retryable())
	assert.ErrorIs(t, badStatus("stats", http.StatusTooManyRequests, nil), common.ErrRateLimit)
}
