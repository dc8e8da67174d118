// Package workflow runs the qualifier flow: register with the hiring
// service, work out the assigned question, store the final query locally and
// submit it to the webhook handed out at registration.
package workflow

import (
	"context"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"qualifier/internal/engine/classify"
	"qualifier/internal/engine/query"
	"qualifier/internal/engine/webhooks"
	"qualifier/internal/pkg/validator"
	"qualifier/internal/platform/auth"
	"qualifier/internal/platform/config"
	"qualifier/internal/platform/models"
)

// HiringClient is the remote side of the flow.
type HiringClient interface {
	GenerateWebhook(ctx context.Context, req models.WebhookRequest) webhooks.Outcome[*models.WebhookResponse]
	Submit(ctx context.Context, target, accessToken, finalQuery string) webhooks.Outcome[string]
	URL(path string) string
}

// Report describes what a single run did.
type Report struct {
	RunID              string
	Classification     string
	FinalQuery         string
	OutputPath         string
	Target             string
	SubmissionOutcome  webhooks.OutcomeKind
	SubmissionResponse string
	Aborted            bool
	Completed          bool
	Err                error
}

type Runner struct {
	cfg    config.Config
	client HiringClient
}

// NewRunner copies cfg; later changes to the caller's Config are not seen.
func NewRunner(cfg config.Config, client HiringClient) *Runner {
	return &Runner{cfg: cfg, client: client}
}

// Run executes the flow once. It never panics and never returns an error:
// every failure ends up in the log and in the returned Report.
func (r *Runner) Run(ctx context.Context) (report *Report) {
	report = &Report{RunID: uuid.New().String()}

	logger := zerolog.Ctx(ctx).With().
		Str("run_id", report.RunID).
		Str("reg_no", r.cfg.App.RegNo).
		Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			report.Err = errors.Errorf("panic: %v", rec)
			logger.Error().
				Str("stack", string(debug.Stack())).
				Msgf("Unexpected error: %v", rec)
		}
	}()

	if err := r.run(ctx, report); err != nil {
		report.Err = err
		logger.Error().Stack().Err(err).Msgf("Unexpected error: %v", err)
	}
	return report
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	logger := zerolog.Ctx(ctx)
	app := r.cfg.App

	logger.Info().Msg("=== Qualifier Flow Starting ===")
	logger.Info().Msgf("Using regNo=%s, name=%s, email=%s", app.RegNo, app.Name, app.Email)
	if err := validator.ValidateEmail(app.Email); err != nil {
		logger.Warn().Err(err).Msg("email looks malformed, sending it anyway")
	}

	gen := r.client.GenerateWebhook(ctx, models.WebhookRequest{
		Name:  app.Name,
		RegNo: app.RegNo,
		Email: app.Email,
	})
	if !gen.OK() {
		report.Aborted = true
		logger.Error().Err(gen.Err).Msg("Failed to get accessToken/webhook from API. Aborting.")
		return nil
	}
	resp := gen.Payload

	if info, ok := auth.Inspect(resp.AccessToken); ok && !info.ExpiresAt.IsZero() {
		logger.Debug().Time("expires_at", info.ExpiresAt).Msg("access token received")
	}

	report.Classification = classify.Derive(app.RegNo)
	logger.Info().Msg(report.Classification)

	finalQuery, err := query.NewResolver(app.FinalQuery, r.cfg.Query.SourceFile).Resolve()
	if err != nil {
		return err
	}
	report.FinalQuery = finalQuery
	logger.Info().Msgf("Final SQL to submit: %s", finalQuery)

	outputPath, err := query.Persist(r.cfg.Query.OutputFile, finalQuery)
	if err != nil {
		return err
	}
	report.OutputPath = outputPath
	logger.Info().Msgf("Saved final-query.sql at: %s", outputPath)

	report.Target = resp.Webhook
	if strings.TrimSpace(report.Target) == "" {
		report.Target = r.client.URL(r.cfg.Hiring.DefaultWebhookPath)
	}

	sub := r.client.Submit(ctx, report.Target, resp.AccessToken, finalQuery)
	report.SubmissionOutcome = sub.Kind
	switch sub.Kind {
	case webhooks.OutcomeSuccess:
		report.SubmissionResponse = sub.Payload
	default:
		report.SubmissionResponse = sub.Message
		logger.Error().Err(sub.Err).Str("target", report.Target).Msg(sub.Message)
	}

	logger.Info().Msgf("Submission response: %s", report.SubmissionResponse)
	logger.Info().Msg("=== Qualifier Flow Completed ===")
	report.Completed = true
	return nil
}
