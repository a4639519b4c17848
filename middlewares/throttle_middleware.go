package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"goaltracker/cache"
	"goaltracker/config"
	"goaltracker/models"
	"goaltracker/services"
	"goaltracker/utils"
)

// TierThrottle limits requests to a scope by account tier. The tier is
// resolved fresh on every request so an account upgrade or downgrade
// applies immediately, and each (scope, tier) pair gets its own
// counter per caller identity. Counters live in the shared keyed
// store with a fixed window.
func TierThrottle(scope string, store cache.Store, users services.UserService, cfg config.ThrottleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tier := "anon"
			quota := cfg.StandardDailyQuota

			ident := GetUsernameFromContext(r.Context())
			if ident != "" {
				resolved, err := users.ResolveTier(r.Context(), ident)
				if err != nil {
					utils.HandleMessageResponse(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				tier = resolved
				if tier == models.TierPremium {
					quota = cfg.PremiumDailyQuota
				}
			} else {
				ident = clientIP(r)
			}

			key := fmt.Sprintf("throttle:%s_%s:%s", scope, tier, ident)
			count, err := store.Incr(r.Context(), key, cfg.Window)
			if err != nil {
				utils.HandleMessageResponse(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if count > int64(quota) {
				utils.HandleMessageResponse(w, "Rate limit exceeded. Try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP identifies anonymous callers: first X-Forwarded-For hop if
// present, otherwise the connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
