package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	apiContext "qualifier/internal/api/context"
	"qualifier/internal/pkg/errors"
	"qualifier/internal/pkg/validator"
	"qualifier/internal/platform/auth"
	"qualifier/internal/platform/models"
)

// RecordedSubmission is a final query accepted by the test webhook.
type RecordedSubmission struct {
	ID         string
	RegNo      string
	Language   string
	FinalQuery string
	ReceivedAt time.Time
}

// HiringHandler stands in for the remote hiring service. Submissions are
// kept in memory for the lifetime of the process.
type HiringHandler struct {
	tokenSvc  *auth.TokenService
	publicURL string

	mu          sync.Mutex
	submissions []RecordedSubmission
}

func NewHiringHandler(tokenSvc *auth.TokenService, publicURL string) *HiringHandler {
	return &HiringHandler{
		tokenSvc:  tokenSvc,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *HiringHandler) GenerateWebhook(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	if lang == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeUnsupported, "Language is required", nil)
		return
	}

	var req models.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	details := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	}
	if err := validator.ValidateRegNo(req.RegNo); err != nil {
		details["regNo"] = err.Error()
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		details["email"] = err.Error()
	}
	if len(details) > 0 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid registration", details)
		return
	}

	token, err := h.tokenSvc.GenerateAccessToken(req, lang)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to issue access token", nil)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("reg_no", req.RegNo).
		Str("lang", lang).
		Msg("issued webhook")

	errors.WriteJSON(w, http.StatusOK, models.WebhookResponse{
		Webhook:     h.baseURL(r) + "/hiring/testWebhook/" + lang,
		AccessToken: token,
	})
}

// TestWebhook accepts a final query. It must run behind AuthMiddleware.
func (h *HiringHandler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
	if !ok {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing access token", nil)
		return
	}

	lang := language(r)
	if lang != claims.Language {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeUnsupported, "Token was issued for "+claims.Language, nil)
		return
	}

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(sub.FinalQuery) == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "finalQuery is required", nil)
		return
	}

	rec := RecordedSubmission{
		ID:         uuid.New().String(),
		RegNo:      claims.RegNo,
		Language:   lang,
		FinalQuery: sub.FinalQuery,
		ReceivedAt: time.Now(),
	}

	h.mu.Lock()
	h.submissions = append(h.submissions, rec)
	h.mu.Unlock()

	zerolog.Ctx(r.Context()).Info().
		Str("submission_id", rec.ID).
		Str("reg_no", rec.RegNo).
		Str("final_query", rec.FinalQuery).
		Msg("received submission")

	errors.WriteJSON(w, http.StatusOK, models.SubmissionResult{
		Success: true,
		Message: "Webhook processed successfully",
		ID:      rec.ID,
	})
}

// Submissions returns a copy of everything accepted so far.
func (h *HiringHandler) Submissions() []RecordedSubmission {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]RecordedSubmission, len(h.submissions))
	copy(out, h.submissions)
	return out
}

func (h *HiringHandler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func language(r *http.Request) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return strings.ToUpper(strings.TrimSpace(params.ByName("lang")))
}
