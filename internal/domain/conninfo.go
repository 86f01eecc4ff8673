package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPostgresPort is used when a connection URL carries no explicit port.
const DefaultPostgresPort = 5432

// ConnInfo holds the parsed parts of a database connection URL. It is
// reconstructed on every probe attempt because the underlying config var may
// itself still be resolving.
type ConnInfo struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ParseConnInfo parses a postgres:// connection URL into its parts.
func ParseConnInfo(raw string) (ConnInfo, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ConnInfo{}, fmt.Errorf("invalid connection url: %w", err)
	}
	if u.Hostname() == "" {
		return ConnInfo{}, fmt.Errorf("connection url has no host: %q", raw)
	}

	info := ConnInfo{
		Host:     u.Hostname(),
		Port:     DefaultPostgresPort,
		Database: strings.TrimPrefix(u.Path, "/"),
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return ConnInfo{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
		info.Port = port
	}
	if u.User != nil {
		info.User = u.User.Username()
		info.Password, _ = u.User.Password()
	}
	return info, nil
}
