// Package workflow implements the fork-and-capture backup workflow: it
// provisions a fork of the production database, waits for it to leave
// recovery, captures a logical backup, waits for the capture to finish and
// tears the fork down again.
package workflow

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/bnema/snapfork/internal/boundaries/out"
	"github.com/bnema/snapfork/internal/domain"
)

const sourceConfigVar = "DATABASE_URL"

// Options carries the run parameters for the workflow.
type Options struct {
	// App is the scratch application the fork is provisioned on.
	App string
	// ForkFromApp is the application owning the production database.
	ForkFromApp string
	// Plan is the addon plan requested for the fork.
	Plan string
}

// Service sequences the backup workflow. A failure anywhere between
// provisioning and capture completion is reported to the operator exactly
// once and then swallowed; teardown always runs and the process exits
// normally. An alerted human, not an automated retry, handles failures.
type Service struct {
	platform  out.PlatformClient
	notifier  out.Notifier
	readiness *ReadinessWaiter
	transfers *TransferWaiter
	opts      Options
	log       zerolog.Logger
}

// NewService creates the workflow service.
func NewService(
	platform out.PlatformClient,
	notifier out.Notifier,
	readiness *ReadinessWaiter,
	transfers *TransferWaiter,
	opts Options,
	log zerolog.Logger,
) *Service {
	return &Service{
		platform:  platform,
		notifier:  notifier,
		readiness: readiness,
		transfers: transfers,
		opts:      opts,
		log:       log,
	}
}

// Run executes one complete workflow pass. It returns an error only when the
// pre-run cleanup fails; failures inside the protected fork-and-capture
// region are alerted and swallowed so the run still ends with teardown.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info().
		Str("app", s.opts.App).
		Str("fork_from", s.opts.ForkFromApp).
		Msg("starting fork-and-capture run")

	if err := s.deleteForkedDatabases(ctx); err != nil {
		return fmt.Errorf("pre-run cleanup: %w", err)
	}

	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if err := s.deleteForkedDatabases(cleanupCtx); err != nil {
			s.log.Error().Err(err).Msg("post-run cleanup failed")
		}
	}()

	if err := s.forkAndCapture(ctx); err != nil {
		s.log.Error().Err(err).Msg("backup workflow failed, alerting operator")
		s.alert(ctx, err)
		return nil
	}

	s.log.Info().Msg("backup workflow completed")
	return nil
}

// forkAndCapture is the protected region: provision, wait ready, capture,
// wait complete.
func (s *Service) forkAndCapture(ctx context.Context) error {
	vars, err := s.platform.ConfigVars(ctx, s.opts.ForkFromApp)
	if err != nil {
		return fmt.Errorf("resolve source config vars: %w", err)
	}
	source := vars[sourceConfigVar]
	if source == "" {
		return fmt.Errorf("%w: %s on %s", domain.ErrSourceURLMissing, sourceConfigVar, s.opts.ForkFromApp)
	}

	addon, err := s.platform.CreateAddon(ctx, s.opts.App, domain.ForkOptions{
		Plan:     s.opts.Plan,
		ForkFrom: source,
		Fast:     true,
	})
	if err != nil {
		return fmt.Errorf("provision fork: %w", err)
	}
	if len(addon.ConfigVars) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoConfigVars, addon.Name)
	}
	s.log.Info().Str("addon", addon.Name).Str("config_var", addon.ConfigVars[0]).Msg("fork provisioned")

	if err := s.readiness.WaitUntilReady(ctx, s.opts.App, addon.ConfigVars[0]); err != nil {
		return fmt.Errorf("wait for fork readiness: %w", err)
	}

	job, err := s.transfers.Initiate(ctx, addon.Name)
	if err != nil {
		return fmt.Errorf("initiate backup: %w", err)
	}

	if err := s.transfers.AwaitCompletion(ctx, job); err != nil {
		return fmt.Errorf("await backup completion: %w", err)
	}
	return nil
}

// deleteForkedDatabases removes every managed Postgres addon from the scratch
// app. Safe to run when none exist, and before as well as after a run.
func (s *Service) deleteForkedDatabases(ctx context.Context) error {
	addons, err := s.platform.ListAddons(ctx, s.opts.App)
	if err != nil {
		return fmt.Errorf("list addons on %s: %w", s.opts.App, err)
	}

	for _, addon := range addons {
		if !addon.IsPostgres() {
			continue
		}
		s.log.Info().Str("addon", addon.Name).Msg("deleting forked database")
		if err := s.platform.DeleteAddon(ctx, s.opts.App, addon.Name); err != nil {
			return fmt.Errorf("delete addon %s: %w", addon.Name, err)
		}
	}
	return nil
}

// alert reports a workflow failure with its type, message and stack.
func (s *Service) alert(ctx context.Context, runErr error) {
	body := fmt.Sprintf("%T: %v\n\n%s", runErr, runErr, debug.Stack())
	if err := s.notifier.Notify(ctx, "Backup workflow failed", body); err != nil {
		s.log.Error().Err(err).Msg("failed to send operator alert")
	}
}
