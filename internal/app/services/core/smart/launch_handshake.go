package smart

import (
	"context"
	"deathcert-service/internal/app/models"
	"deathcert-service/internal/pkg/constvars"
	"deathcert-service/internal/pkg/exceptions"
	"deathcert-service/internal/pkg/utils"
	"fmt"

	"github.com/goccy/go-json"
)

// launchHandshake turns a session token issued by CompleteLaunch back into
// the stored launch context.
type launchHandshake struct {
	usecase      *smartUsecase
	sessionToken string
}

func (h *launchHandshake) Ready(ctx context.Context) (*models.LaunchContext, error) {
	if h.sessionToken == "" {
		return nil, exceptions.ErrAuthenticationIncomplete(nil, "no session token")
	}

	sessionID, err := utils.ParseJWT(h.sessionToken, h.usecase.InternalConfig.Smart.SessionSecret)
	if err != nil {
		return nil, exceptions.ErrAuthenticationIncomplete(err, constvars.ErrDevSessionTokenParse)
	}

	data, err := h.usecase.RedisRepository.Get(ctx, fmt.Sprintf(constvars.RedisKeyLaunchContextFormat, sessionID))
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, exceptions.ErrAuthenticationIncomplete(nil, "launch context not found or expired")
	}

	launchContext := new(models.LaunchContext)
	if err := json.Unmarshal([]byte(data), launchContext); err != nil {
		return nil, exceptions.ErrAuthenticationIncomplete(err, "unreadable launch context")
	}
	if launchContext.IsExpired(h.usecase.now()) {
		return nil, exceptions.ErrAuthenticationIncomplete(nil, "launch context expired")
	}
	return launchContext, nil
}
