// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (platform API, Postgres, SMTP).
package out

import (
	"context"

	"github.com/bnema/snapfork/internal/domain"
)

// PlatformClient manages database addons and config vars on the platform.
type PlatformClient interface {
	// ConfigVars returns the application's config vars.
	ConfigVars(ctx context.Context, app string) (map[string]string, error)
	// CreateAddon provisions a database addon, typically a fork of an
	// existing database.
	CreateAddon(ctx context.Context, app string, opts domain.ForkOptions) (*domain.Addon, error)
	// ListAddons returns all addons attached to the application.
	ListAddons(ctx context.Context, app string) ([]domain.Addon, error)
	// DeleteAddon destroys an addon by name.
	DeleteAddon(ctx context.Context, app, addonName string) error
}
