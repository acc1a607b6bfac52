package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/premiumretail/retailer-platform-backend/api/responses"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy defines the throttling parameters for one login
// surface. A zero window disables the middleware entirely.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// key builds the counter key for one scope and subject, e.g.
// rl:ip:login:203.0.113.9 or rl:email:login:<sha256 of the address>.
func (p AuthRateLimitPolicy) key(scope, subject string) string {
	return "rl:" + scope + ":" + p.name + ":" + subject
}

// AuthRateLimit throttles login attempts per source IP and per submitted
// email. Email counters are keyed by digest so raw addresses never reach the
// cache.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		gate := &rateGate{policy: policy, store: store, logg: logg}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate.blocked(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type rateGate struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

// blocked runs both counters and writes the response itself when the request
// must not proceed. Counter failures surface as dependency errors; silently
// waving traffic through would defeat the limiter.
func (g *rateGate) blocked(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()

	if g.policy.ipLimit > 0 {
		if stop := g.check(ctx, w, "ip", clientIP(r), g.policy.ipLimit); stop {
			return true
		}
	}

	if g.policy.emailLimit > 0 {
		email, err := peekEmail(r)
		if err != nil {
			responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
			return true
		}
		if email != "" {
			if stop := g.check(ctx, w, "email", hashValue(email), g.policy.emailLimit); stop {
				return true
			}
		}
	}

	return false
}

func (g *rateGate) check(ctx context.Context, w http.ResponseWriter, scope, subject string, limit int) bool {
	if subject == "" {
		return false
	}

	count, err := g.store.IncrWithTTL(ctx, g.policy.key(scope, subject), g.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if g.logg != nil {
		logCtx := g.logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"subject":        subject,
			"policy":         g.policy.name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(g.policy.window.Seconds()),
		})
		g.logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

// peekEmail reads the login body for its email field and restores the body
// so the handler downstream still sees it.
func peekEmail(r *http.Request) (string, error) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(payload))

	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(body.Email)), nil
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
