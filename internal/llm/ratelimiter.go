package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// limited paces calls to a Provider with a token bucket.
type limited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider allows at most rpm calls per minute through p,
// with bursts of up to rpm. rpm <= 0 returns p unchanged.
func NewRateLimitedProvider(p Provider, rpm int) Provider {
	if rpm <= 0 {
		return p
	}
	return &limited{Provider: p, limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)}
}

func (l *limited) Complete(ctx context.Context, req Request) (*Reply, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Provider.Complete(ctx, req)
}
