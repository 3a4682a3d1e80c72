package providers

import (
	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/ratelimit"
)

// AuthKey is the PASETO symmetric key loaded from the data directory.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
}

// LoginLimiterHandle wraps the login rate limiter with shutdown
// capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the per-username login throttle.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Burst equals the per-minute cap; tokens refill continuously.
	rps := float64(cfg.Auth.LoginRatePerMinute) / 60.0
	limiter := ratelimit.New(rps, cfg.Auth.LoginRatePerMinute)

	log.Debug("Login limiter configured", "per_minute", cfg.Auth.LoginRatePerMinute)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}
