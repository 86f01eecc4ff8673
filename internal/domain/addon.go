package domain

// PostgresServiceName is the addon service that identifies managed Postgres
// databases on the platform.
const PostgresServiceName = "heroku-postgresql"

// Addon is a provider-managed resource attached to an application.
type Addon struct {
	ID          string
	Name        string
	ServiceName string
	// ConfigVars lists the config var keys the provider assigned to this
	// addon, in the order the provider reported them.
	ConfigVars []string
}

// IsPostgres reports whether the addon is a managed Postgres database.
func (a Addon) IsPostgres() bool {
	return a.ServiceName == PostgresServiceName
}

// ForkOptions describes a fork-provisioning request.
type ForkOptions struct {
	Plan string
	// ForkFrom is the connection URL of the source database. It is resolved
	// immediately before the request, never cached from a previous run.
	ForkFrom string
	Fast     bool
}
