package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "condo/internal/errors"
)

// KeyFunc extracts the client key from a request.
type KeyFunc func(r *http.Request) string

// Recorder is notified of rejected requests.
type Recorder interface {
	RecordRateLimited()
}

type Options struct {
	Store              *Store
	KeyFn              KeyFunc
	TrustXForwardedFor bool
	// Methods limits throttling to these methods. Empty means all.
	Methods      []string
	RejectStatus int
	// RetryAfter is the minimum Retry-After advertised on rejection.
	RetryAfter time.Duration
	Recorder   Recorder
}

// DefaultKeyFunc keys by client IP. The first X-Forwarded-For entry wins
// when trustXFF is set.
func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware rejects requests over the per-key rate.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Store == nil || (len(opts.Methods) > 0 && !slices.Contains(opts.Methods, r.Method)) {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := opts.Store.Allow(opts.KeyFn(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			wait = max(wait, opts.RetryAfter)
			if opts.Recorder != nil {
				opts.Recorder.RecordRateLimited()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			reject(w, r, opts.RejectStatus)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, status int) {
	msg := "Muitas tentativas. Aguarde alguns instantes e tente novamente."
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": msg,
			"kind":  string(apperrors.KindClient),
		})
		return
	}
	http.Error(w, msg, status)
}
