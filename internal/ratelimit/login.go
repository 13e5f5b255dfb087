package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/utilitydesk/internal/config"
)

const (
	keyLoginIP   = "login:ip:%s"
	keyLoginUser = "login:user:%s"
)

// LoginLimiter throttles login attempts per client address and per username.
type LoginLimiter struct {
	enabled bool
	limiter *GCRA
	rate    float64
	burst   int
}

func NewLoginLimiter(cfg config.Config, client *redis.Client) (*LoginLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled || client == nil {
		return &LoginLimiter{}, nil
	}
	if limitCfg.LoginRatePerMinute <= 0 || limitCfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}

	return &LoginLimiter{
		enabled: true,
		limiter: NewGCRA(client),
		rate:    limitCfg.LoginRatePerMinute / 60,
		burst:   limitCfg.LoginBurst,
	}, nil
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow admits an attempt against the address key and then the username key.
// The first key over its limit decides the result.
func (l *LoginLimiter) Allow(ctx context.Context, clientIP, username string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}

	keys := []string{fmt.Sprintf(keyLoginIP, strings.TrimSpace(clientIP))}
	if user := strings.ToLower(strings.TrimSpace(username)); user != "" {
		keys = append(keys, fmt.Sprintf(keyLoginUser, user))
	}

	var last *RateLimitResult
	for _, key := range keys {
		res, err := l.limiter.Allow(ctx, key, l.rate, l.burst)
		if err != nil {
			return res, err
		}
		if !res.Allowed {
			return res, nil
		}
		last = res
	}
	return last, nil
}
