package pybossa

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pybossa/pbs/pkg/pbs"
)

const (
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimit issues a HEAD request against path and reads the rate-limit
// headers. Missing or malformed headers yield a RateLimit with Known false.
func (c *Client) RateLimit(ctx context.Context, path string) (pbs.RateLimit, error) {
	req, err := c.newRequest(ctx, http.MethodHead, path, nil, nil)
	if err != nil {
		return pbs.RateLimit{}, err
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return pbs.RateLimit{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return parseRateLimit(resp.Header), nil
}

func parseRateLimit(h http.Header) pbs.RateLimit {
	remaining, err := strconv.Atoi(strings.TrimSpace(h.Get(headerRateLimitRemaining)))
	if err != nil {
		return pbs.RateLimit{}
	}
	reset, err := strconv.ParseFloat(strings.TrimSpace(h.Get(headerRateLimitReset)), 64)
	if err != nil {
		return pbs.RateLimit{}
	}
	sec := int64(reset)
	nsec := int64((reset - float64(sec)) * float64(time.Second))
	return pbs.RateLimit{
		Remaining: remaining,
		Reset:     time.Unix(sec, nsec),
		Known:     true,
	}
}
