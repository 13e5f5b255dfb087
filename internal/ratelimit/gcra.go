package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// gcraScript stores the theoretical arrival time (TAT) of the next request in
// milliseconds. A request is admitted while TAT stays within burst emission
// intervals of now.
const gcraScript = `
local emission = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])

local clock = redis.call("TIME")
local now = clock[1] * 1000 + math.floor(clock[2] / 1000)

local tat = tonumber(redis.call("GET", KEYS[1]))
if tat == nil or tat < now then
  tat = now
end

local tolerance = emission * burst
local next_tat = tat + emission
local wait = next_tat - tolerance - now
if wait > 0 then
  return {0, math.floor((tolerance - (tat - now)) / emission), wait, tat - now}
end

redis.call("SET", KEYS[1], next_tat, "PX", next_tat - now)
return {1, math.floor((tolerance - (next_tat - now)) / emission), 0, next_tat - now}
`

// GCRA is a Redis-backed generic cell rate limiter shared by every process
// using the same keys.
type GCRA struct {
	client *redis.Client
	script *redis.Script
}

type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

func NewGCRA(client *redis.Client) *GCRA {
	if client == nil {
		return nil
	}
	return &GCRA{
		client: client,
		script: redis.NewScript(gcraScript),
	}
}

// Allow admits one request for key at rate per second with the given burst.
func (g *GCRA) Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	if g == nil || g.client == nil {
		return &RateLimitResult{}, errors.New("rate limiter not configured")
	}
	if key == "" {
		return &RateLimitResult{}, errors.New("rate limiter key is empty")
	}
	if rate <= 0 || burst <= 0 {
		return &RateLimitResult{}, errors.New("rate limiter rate and burst must be positive")
	}

	res, err := g.script.Run(ctx, g.client, []string{key}, emissionMillis(rate), burst).Int64Slice()
	if err != nil {
		return &RateLimitResult{}, err
	}
	if len(res) != 4 {
		return &RateLimitResult{}, errors.New("invalid rate limit script response")
	}

	retryAfter := time.Duration(res[2]) * time.Millisecond
	remaining := int(res[1])
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Limit:      burst,
		Remaining:  remaining,
		ResetTime:  time.Now().Add(time.Duration(res[3]) * time.Millisecond),
		RetryAfter: retryAfter,
	}, nil
}

// emissionMillis is the spacing between admitted requests at rate per second.
func emissionMillis(rate float64) int64 {
	ms := int64(math.Ceil(1000 / rate))
	if ms < 1 {
		return 1
	}
	return ms
}
