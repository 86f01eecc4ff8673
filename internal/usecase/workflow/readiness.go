package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/snapfork/internal/boundaries/out"
	"github.com/bnema/snapfork/internal/domain"
)

// pollInterval is deliberately fixed with no backoff: the events being
// awaited (replica catch-up, DNS propagation) resolve on provider-controlled
// timescales where backing off gains nothing.
const pollInterval = 10 * time.Second

// maxBadCredentialAttempts bounds the auth-failure branch. Fresh forks can
// reject credentials for a while before they settle; past this budget the
// wait degrades to success instead of hanging forever.
const maxBadCredentialAttempts = 25

// ReadinessWaiter polls a forked database until it leaves recovery mode.
type ReadinessWaiter struct {
	platform out.PlatformClient
	probe    out.DatabaseProbe
	notifier out.Notifier
	sleeper  out.Sleeper
	log      zerolog.Logger
}

// NewReadinessWaiter creates a readiness waiter.
func NewReadinessWaiter(
	platform out.PlatformClient,
	probe out.DatabaseProbe,
	notifier out.Notifier,
	sleeper out.Sleeper,
	log zerolog.Logger,
) *ReadinessWaiter {
	return &ReadinessWaiter{
		platform: platform,
		probe:    probe,
		notifier: notifier,
		sleeper:  sleeper,
		log:      log,
	}
}

// WaitUntilReady polls the database behind app's configVarKey until it
// reports it is no longer in recovery.
//
// Connection failures are classified by kind: starting-up and unresolved-host
// retry without limit, bad credentials retry against a bounded budget, and
// anything else is fatal. Exhausting the credential budget notifies the
// operator and returns nil so the workflow can proceed rather than hang on a
// flaky early-boot credential race.
func (w *ReadinessWaiter) WaitUntilReady(ctx context.Context, app, configVarKey string) error {
	badCredentials := 0

	for {
		inRecovery, err := w.attempt(ctx, app, configVarKey)
		switch {
		case err == nil && !inRecovery:
			w.log.Info().Str("config_var", configVarKey).Msg("database is ready")
			return nil

		case err == nil:
			w.log.Info().Str("config_var", configVarKey).Msg("database still in recovery")

		default:
			pe, ok := domain.AsProbeError(err)
			if !ok || pe.Kind == domain.ProbeQueryFailed {
				w.alert(ctx, "Database readiness check failed", err.Error())
				return err
			}

			switch pe.Kind {
			case domain.ProbeStartingUp:
				w.log.Info().Str("config_var", configVarKey).Msg("database still starting up")

			case domain.ProbeHostNotFound:
				w.log.Info().Str("config_var", configVarKey).Msg("database host not resolvable yet")

			case domain.ProbeBadCredentials:
				badCredentials++
				if badCredentials > maxBadCredentialAttempts {
					w.log.Warn().
						Int("attempts", badCredentials).
						Msg("credentials still rejected, giving up on readiness check")
					w.alert(ctx, "Bad credentials",
						fmt.Sprintf("Bad credentials: database behind %s still rejected its own credentials after %d attempts, proceeding without a verified-ready database: %v",
							configVarKey, badCredentials, err))
					return nil
				}
				w.log.Warn().
					Int("attempts", badCredentials).
					Str("config_var", configVarKey).
					Msg("database rejected credentials, retrying")

			default:
				return err
			}
		}

		if err := w.sleeper.Sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// attempt resolves the current connection string, parses it and runs one
// probe. The config var is re-resolved on every attempt because its value may
// itself still be settling.
func (w *ReadinessWaiter) attempt(ctx context.Context, app, configVarKey string) (bool, error) {
	vars, err := w.platform.ConfigVars(ctx, app)
	if err != nil {
		return false, fmt.Errorf("resolve config vars for %s: %w", app, err)
	}

	raw, ok := vars[configVarKey]
	if !ok || raw == "" {
		return false, fmt.Errorf("%w: %s", domain.ErrConfigVarMissing, configVarKey)
	}

	info, err := domain.ParseConnInfo(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", configVarKey, err)
	}

	return w.probe.InRecovery(ctx, info)
}

func (w *ReadinessWaiter) alert(ctx context.Context, subject, body string) {
	if err := w.notifier.Notify(ctx, subject, body); err != nil {
		w.log.Error().Err(err).Msg("failed to send operator alert")
	}
}
