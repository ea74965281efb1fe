package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
	"golang.org/x/crypto/blake2b"
)

// Limiter decides whether a client may make another write.
type Limiter interface {
	Allow(key string) bool
}

// Fingerprint hashes the client address with a keyed BLAKE2b digest and puts
// it on the request context. Raw addresses never leave this middleware.
// Forwarding headers count only when the peer is one of proxies.
func Fingerprint(salt string, proxies TrustedProxies) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte(salt))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := proxies.ClientIP(r)

			h, _ := blake2b.New256(key[:]) // only fails for keys over 64 bytes
			h.Write([]byte(host))
			fp := hex.EncodeToString(h.Sum(nil))

			next.ServeHTTP(w, r.WithContext(utils.WithClient(r.Context(), fp)))
		})
	}
}

// RateLimit rejects requests with 429 once the client's budget is spent.
// Requests without a fingerprint share one bucket.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, _ := utils.GetClientFromContext(r.Context())
			if !limiter.Allow(client) {
				w.Header().Set("Retry-After", "1")
				utils.WriteError(w, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS echoes the origin back only if it's on the allow-list.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := originSet(origins)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			w.Header().Set("Access-Control-Expose-Headers", "Retry-After")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OriginChecker returns a websocket CheckOrigin func using the CORS allow-list.
// Requests without an Origin header (non-browser clients) are accepted.
func OriginChecker(origins []string) func(r *http.Request) bool {
	allowed := originSet(origins)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func originSet(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[o] = struct{}{}
	}
	return set
}
