package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goaltracker/cache"
	"goaltracker/config"
	"goaltracker/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService satisfies services.UserService for throttle tests;
// only ResolveTier is exercised.
type fakeUserService struct {
	tiers map[string]string
}

func (f *fakeUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	panic("not used")
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (string, error) {
	panic("not used")
}

func (f *fakeUserService) ListUsernames(ctx context.Context) ([]string, error) {
	panic("not used")
}

func (f *fakeUserService) ResolveTier(ctx context.Context, username string) (string, error) {
	if tier, ok := f.tiers[username]; ok {
		return tier, nil
	}
	return models.TierStandard, nil
}

func throttleFixture(t *testing.T, users *fakeUserService) (func(http.Handler) http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	cfg := config.ThrottleConfig{
		StandardDailyQuota: 10,
		PremiumDailyQuota:  1000,
		Window:             24 * time.Hour,
	}

	return TierThrottle("progress", store, users, cfg), mr
}

func throttledRequest(t *testing.T, mw func(http.Handler) http.Handler, username, remoteAddr string) int {
	t.Helper()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals/1/progress/", nil)
	req.RemoteAddr = remoteAddr
	if username != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserContextKey, username))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestThrottleStandardQuota(t *testing.T) {
	users := &fakeUserService{tiers: map[string]string{"alice": models.TierStandard}}
	mw, _ := throttleFixture(t, users)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, throttledRequest(t, mw, "alice", "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "alice", "10.0.0.1:1234"))
}

func TestThrottlePremiumQuota(t *testing.T) {
	users := &fakeUserService{tiers: map[string]string{"bob": models.TierPremium}}
	mw, _ := throttleFixture(t, users)

	for i := 0; i < 1000; i++ {
		require.Equal(t, http.StatusOK, throttledRequest(t, mw, "bob", "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "bob", "10.0.0.1:1234"))
}

func TestThrottleAnonymousByIP(t *testing.T) {
	mw, _ := throttleFixture(t, &fakeUserService{tiers: map[string]string{}})

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, throttledRequest(t, mw, "", "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "", "10.0.0.1:5678"))

	// A different client IP gets its own counter.
	assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "", "10.0.0.2:1234"))
}

func TestThrottleTierResolvedPerRequest(t *testing.T) {
	users := &fakeUserService{tiers: map[string]string{"carol": models.TierStandard}}
	mw, _ := throttleFixture(t, users)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, throttledRequest(t, mw, "carol", "10.0.0.1:1234"))
	}
	require.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "carol", "10.0.0.1:1234"))

	// An upgrade takes effect on the very next request.
	users.tiers["carol"] = models.TierPremium
	assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "carol", "10.0.0.1:1234"))
}

func TestThrottleWindowExpiry(t *testing.T) {
	users := &fakeUserService{tiers: map[string]string{"alice": models.TierStandard}}
	mw, mr := throttleFixture(t, users)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, throttledRequest(t, mw, "alice", "10.0.0.1:1234"))
	}
	require.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "alice", "10.0.0.1:1234"))

	mr.FastForward(24*time.Hour + time.Second)
	assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "alice", "10.0.0.1:1234"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:4321"
	assert.Equal(t, "10.0.0.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
