package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	mailConfigured bool
	redisCheck     func(ctx context.Context) error // nil when Redis is disabled
}

// NewHealthUsecase reports process status. redisCheck may be nil.
func NewHealthUsecase(mailConfigured bool, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{
		mailConfigured: mailConfigured,
		redisCheck:     redisCheck,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"mail":   "configured",
		"redis":  "disabled",
	}
	if !u.mailConfigured {
		status["mail"] = "not_configured"
	}

	if u.redisCheck != nil {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := u.redisCheck(pingCtx); err != nil {
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}

	return status
}
