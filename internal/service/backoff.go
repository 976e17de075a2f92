package service

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// pollBackoff yields the waits between status polls: base, 2*base, 4*base
// and so on, never exceeding max.
type pollBackoff struct {
	b   retry.Backoff
	max time.Duration
}

func newPollBackoff(base, max time.Duration) *pollBackoff {
	if max < base {
		max = base
	}
	return &pollBackoff{
		b:   retry.WithCappedDuration(max, retry.NewExponential(base)),
		max: max,
	}
}

// next never reports a stop; once the exponential overflows the cap holds.
func (p *pollBackoff) next() time.Duration {
	d, stop := p.b.Next()
	if stop || d <= 0 {
		return p.max
	}
	return d
}
