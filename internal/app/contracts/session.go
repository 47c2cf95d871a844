package contracts

import (
	"context"
	"deathcert-service/internal/app/models"
)

// LaunchHandshake is a pending delegated login. Ready blocks until the
// handshake yields a launch context or fails.
type LaunchHandshake interface {
	Ready(ctx context.Context) (*models.LaunchContext, error)
}

type SessionProvider interface {
	Connect(endpointURL string) (FhirSession, error)
	Bootstrap(ctx context.Context, handshake LaunchHandshake) (*models.BootstrapResult, error)
}
