package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"qualifier/internal/platform/config"
	"qualifier/internal/platform/models"
)

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(config.HiringConfig{
		BaseURL:      baseURL + "/",
		GeneratePath: config.DefaultGeneratePath,
		Timeout:      timeout,
	})
}

func TestClient_GenerateWebhook(t *testing.T) {
	identity := models.WebhookRequest{Name: "Jane Doe", RegNo: "REG12347", Email: "jane@example.com"}

	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    OutcomeKind
		wantPayload *models.WebhookResponse
		wantErrIs   error
	}{
		{
			name:     "Success",
			status:   http.StatusOK,
			body:     `{"webhook":"https://example.com/hook","accessToken":"tok-123"}`,
			wantKind: OutcomeSuccess,
			wantPayload: &models.WebhookResponse{
				Webhook:     "https://example.com/hook",
				AccessToken: "tok-123",
			},
		},
		{
			name:        "Success Without Webhook",
			status:      http.StatusOK,
			body:        `{"accessToken":"tok-123"}`,
			wantKind:    OutcomeSuccess,
			wantPayload: &models.WebhookResponse{AccessToken: "tok-123"},
		},
		{
			name:      "Missing Token",
			status:    http.StatusOK,
			body:      `{"webhook":"https://example.com/hook"}`,
			wantKind:  OutcomeFatal,
			wantErrIs: ErrMissingAccessToken,
		},
		{
			name:      "Null Body",
			status:    http.StatusOK,
			body:      `null`,
			wantKind:  OutcomeFatal,
			wantErrIs: ErrMissingAccessToken,
		},
		{
			name:     "Server Error",
			status:   http.StatusInternalServerError,
			body:     `boom`,
			wantKind: OutcomeFatal,
		},
		{
			name:     "Malformed JSON",
			status:   http.StatusOK,
			body:     `{"accessToken":`,
			wantKind: OutcomeFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received models.WebhookRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, config.DefaultGeneratePath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Empty(t, r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			out := newTestClient(server.URL, 5*time.Second).GenerateWebhook(context.Background(), identity)

			assert.Equal(t, identity, received)
			assert.Equal(t, tt.wantKind, out.Kind)
			if tt.wantPayload != nil {
				assert.Equal(t, tt.wantPayload, out.Payload)
			}
			if tt.wantKind == OutcomeFatal {
				require.Error(t, out.Err)
				assert.NotEmpty(t, out.Message)
			}
			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(out.Err, tt.wantErrIs))
			}
		})
	}
}

func TestClient_GenerateWebhook_StatusErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "regNo rejected", http.StatusBadRequest)
	}))
	defer server.Close()

	out := newTestClient(server.URL, 5*time.Second).GenerateWebhook(context.Background(), models.WebhookRequest{})

	require.Equal(t, OutcomeFatal, out.Kind)
	var statusErr *StatusError
	require.True(t, errors.As(out.Err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "regNo rejected", statusErr.Body)
	assert.Contains(t, out.Message, "HTTP 400 Bad Request: regNo rejected")
}

func TestClient_GenerateWebhook_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	out := newTestClient(server.URL, 100*time.Millisecond).GenerateWebhook(context.Background(), models.WebhookRequest{})

	assert.Equal(t, OutcomeFatal, out.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Submit_SendsRawAuthorization(t *testing.T) {
	var (
		gotAuth string
		gotBody models.Submission
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, 5*time.Second)
	out := c.Submit(context.Background(), c.URL("/hiring/testWebhook/JAVA"), "eyJ.raw.token", "SELECT 1")

	require.True(t, out.OK())
	assert.Equal(t, `{"success":true}`, out.Payload)
	assert.Equal(t, "eyJ.raw.token", gotAuth)
	assert.Equal(t, "SELECT 1", gotBody.FinalQuery)
}

func TestClient_Submit_FailureIsRecoverable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL, 5*time.Second)

	t.Run("Status", func(t *testing.T) {
		out := c.Submit(context.Background(), server.URL, "tok", "SELECT 1")

		assert.Equal(t, OutcomeRecoverable, out.Kind)
		assert.Equal(t, "Submission failed: HTTP 401 Unauthorized", out.Message)
		assert.Empty(t, out.Payload)
	})

	t.Run("Unreachable", func(t *testing.T) {
		out := c.Submit(context.Background(), "http://127.0.0.1:1/unreachable", "tok", "SELECT 1")

		assert.Equal(t, OutcomeRecoverable, out.Kind)
		assert.Contains(t, out.Message, "Submission failed: ")
	})

	t.Run("Invalid URL", func(t *testing.T) {
		out := c.Submit(context.Background(), "://not-a-url", "tok", "SELECT 1")

		assert.Equal(t, OutcomeRecoverable, out.Kind)
		assert.Contains(t, out.Message, "Submission failed: ")
	})
}

func TestClient_URL(t *testing.T) {
	c := NewClient(config.HiringConfig{BaseURL: "https://example.com/"})

	assert.Equal(t, "https://example.com/hiring/testWebhook/JAVA", c.URL("/hiring/testWebhook/JAVA"))
	assert.Equal(t, "https://example.com/a", c.URL("a"))
	assert.Equal(t, "https://example.com", c.URL(""))
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "fatal", OutcomeFatal.String())
	assert.Equal(t, "recoverable", OutcomeRecoverable.String())
	assert.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
}
