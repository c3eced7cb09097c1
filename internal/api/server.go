// Package api is the local JSON surface the presentation layer talks to.
package api

import (
	"context"

	"github.com/vytor/lexiflash/internal/services"
)

// Pinger reports whether the local database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	DB          Pinger
	Auth        services.AuthService
	Collections services.CollectionService
	Sessions    services.SessionService
	Outbox      services.OutboxService
	CORSOrigins []string
}
