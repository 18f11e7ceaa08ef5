// Package groom is the host-facing layer around the recipient
// pipeline: it applies the caller-selectable policies that the pure
// steps deliberately do not (abort-on-invalid), persists run history,
// and drives the end-to-end draft clean.
package groom

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailgroom/internal/mailbox"
	"github.com/nhle/mailgroom/internal/model"
	"github.com/nhle/mailgroom/internal/pipeline"
	"github.com/nhle/mailgroom/internal/recipient"
	"github.com/nhle/mailgroom/internal/store"
)

// Service runs cleans on behalf of the CLI and the draft integration.
type Service struct {
	cfg     *model.AppConfig
	history store.Store
	logger  *log.Logger
}

// NewService creates a groom service. history may be nil, in which case
// runs are not persisted.
func NewService(cfg *model.AppConfig, history store.Store, logger *log.Logger) *Service {
	return &Service{
		cfg:     cfg,
		history: history,
		logger:  logger,
	}
}

// NewRequest builds a pipeline request for the given lists from the
// configured step order and domain settings.
func (s *Service) NewRequest(to, cc, bcc []string) pipeline.Request {
	return pipeline.Request{
		To:              to,
		Cc:              cc,
		Bcc:             bcc,
		EnabledSteps:    s.cfg.Pipeline.Steps,
		InternalDomains: s.cfg.Pipeline.InternalDomains,
		OrgDomain:       s.cfg.Pipeline.OrgDomain,
		Alphabetical:    s.cfg.Pipeline.Alphabetical,
	}
}

// Clean runs the pipeline under the configured policy and persists the
// run. With abort-on-invalid enabled, a request containing any invalid
// address is refused before any step runs, so nothing is dropped that
// the user has not reviewed. A history write failure is logged, not
// fatal: the clean itself succeeded.
func (s *Service) Clean(
	ctx context.Context,
	req pipeline.Request,
	source string,
) (*pipeline.Result, error) {
	if s.cfg.Pipeline.AbortOnInvalid {
		if invalid := Preflight(req); len(invalid) > 0 {
			return nil, &InvalidRecipientsError{Invalid: invalid}
		}
	}

	started := time.Now()

	result, err := pipeline.Run(req)
	if err != nil {
		return nil, fmt.Errorf("running pipeline: %w", err)
	}

	s.logger.Info("clean finished",
		"source", source,
		"processed", result.Summary.TotalProcessed,
		"remaining", result.Summary.TotalRemaining,
		"steps", result.Summary.StepsExecuted,
	)

	if s.history != nil {
		run := store.RunRecord{
			StartedAt:      started,
			Source:         source,
			Steps:          req.EnabledSteps,
			TotalProcessed: result.Summary.TotalProcessed,
			TotalRemaining: result.Summary.TotalRemaining,
			StepsExecuted:  result.Summary.StepsExecuted,
			Actions:        result.Actions,
		}
		if err := s.history.SaveRun(ctx, run); err != nil {
			s.logger.Warn("saving run history failed", "err", err)
		}
	}

	return result, nil
}

// CleanDraft fetches a draft, cleans its recipient lists, and writes
// the rewritten draft back. Returns the result and the draft's original
// recipient view.
func (s *Service) CleanDraft(
	ctx context.Context,
	client *mailbox.Client,
	uid uint32,
) (*pipeline.Result, *mailbox.Draft, error) {
	draft, raw, err := client.FetchDraft(ctx, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching draft %d: %w", uid, err)
	}

	req := s.NewRequest(draft.To, draft.Cc, draft.Bcc)
	result, err := s.Clean(ctx, req, fmt.Sprintf("draft:%d", uid))
	if err != nil {
		return nil, draft, err
	}

	rewritten, err := mailbox.RewriteRecipients(raw, result.To, result.Cc, result.Bcc)
	if err != nil {
		return result, draft, err
	}

	if err := client.ReplaceDraft(ctx, uid, rewritten); err != nil {
		return result, draft, fmt.Errorf("writing draft %d back: %w", uid, err)
	}

	return result, draft, nil
}

// Preflight checks every entry of the request against the validation
// format rules without running any step, and returns the invalid
// entries. Used by the abort-on-invalid policy.
func Preflight(req pipeline.Request) []pipeline.Outcome {
	var invalid []pipeline.Outcome

	check := func(field pipeline.Field, raws []string) {
		for _, raw := range raws {
			entry := recipient.Parse(raw)
			if reason := pipeline.CheckFormat(entry.Email); reason != "" {
				invalid = append(invalid, pipeline.Outcome{
					Field:  field,
					Entry:  entry.String(),
					Status: pipeline.StatusError,
					Reason: reason,
				})
			}
		}
	}

	check(pipeline.FieldTo, req.To)
	check(pipeline.FieldCc, req.Cc)
	check(pipeline.FieldBcc, req.Bcc)

	return invalid
}
