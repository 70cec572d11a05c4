package ratelimit

import (
	"fmt"
	"time"

	"github.com/pybossa/pbs/pkg/pbs"
)

// Evaluate decides how long to pause given the server's rate-limit state at now.
// It returns a zero delay and no message while the remaining budget is above
// the low-water mark or when the server sent no rate-limit information.
// At or below the mark it returns the time left until reset (never negative)
// and a warning message.
func Evaluate(rl pbs.RateLimit, now time.Time) (time.Duration, string) {
	if !rl.Known || rl.Remaining > pbs.RateLimitLowWater {
		return 0, ""
	}

	delay := rl.Reset.Sub(now)
	if delay < 0 {
		delay = 0
	}
	msg := fmt.Sprintf("Warning: %d remaining hits to the endpoint. Auto-throttling enabled!", rl.Remaining)
	return delay, msg
}
