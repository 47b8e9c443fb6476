package signal

import "golang.org/x/time/rate"

// rateLimiter throttles one connection's requests. A nil limiter allows all.
type rateLimiter struct {
	lim *rate.Limiter
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (rl *rateLimiter) Allow() bool {
	return rl == nil || rl.lim.Allow()
}
