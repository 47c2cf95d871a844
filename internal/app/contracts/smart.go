package contracts

import (
	"context"
	"deathcert-service/internal/app/models"
)

type SmartUsecase interface {
	StartLaunch(ctx context.Context, issuer, launch string) (authorizeURL string, err error)
	CompleteLaunch(ctx context.Context, code, state string) (sessionToken string, launchContext *models.LaunchContext, err error)
	Handshake(sessionToken string) LaunchHandshake
}
