// Package pgprobe answers whether a Postgres instance is still in recovery
// mode, classifying connection failures into structured kinds so the waiter
// can branch on them without matching error text.
package pgprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bnema/snapfork/internal/domain"
)

// SQLSTATE codes relevant to probing a freshly forked database.
const (
	codeCannotConnectNow         = "57P03"
	codeInvalidPassword          = "28P01"
	codeInvalidAuthorizationSpec = "28000"
)

// Probe implements out.DatabaseProbe over a transient pgx connection.
type Probe struct{}

// New creates a probe.
func New() *Probe {
	return &Probe{}
}

// InRecovery opens a connection described by info and asks the server whether
// it is still applying catch-up changes. The connection is scoped to this
// call and closed on every path.
func (p *Probe) InRecovery(ctx context.Context, info domain.ConnInfo) (bool, error) {
	conn, err := pgx.Connect(ctx, connString(info))
	if err != nil {
		return false, domain.NewProbeError(classifyConnectError(err), err)
	}
	defer conn.Close(ctx)

	var inRecovery bool
	if err := conn.QueryRow(ctx, "SELECT pg_is_in_recovery()").Scan(&inRecovery); err != nil {
		return false, domain.NewProbeError(domain.ProbeQueryFailed, err)
	}
	return inRecovery, nil
}

// connString renders info back into a connection URL for pgx.
func connString(info domain.ConnInfo) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", info.Host, info.Port),
		Path:   "/" + info.Database,
	}
	if info.User != "" {
		u.User = url.UserPassword(info.User, info.Password)
	}
	q := u.Query()
	q.Set("sslmode", "require")
	u.RawQuery = q.Encode()
	return u.String()
}

// classifyConnectError maps a connection failure onto a probe error kind.
// The policy mirrors what operators see on freshly forked databases: the
// server booting, DNS not yet propagated and a credential race are all
// expected; anything else is not.
func classifyConnectError(err error) domain.ProbeErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeCannotConnectNow:
			return domain.ProbeStartingUp
		case codeInvalidPassword, codeInvalidAuthorizationSpec:
			return domain.ProbeBadCredentials
		}
		return domain.ProbeConnectionFailed
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.ProbeHostNotFound
	}

	// A refused connection means the server process is not listening yet.
	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.ProbeStartingUp
	}

	return domain.ProbeConnectionFailed
}
