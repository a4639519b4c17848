package routes

import (
	"net/http"

	"goaltracker/cache"
	"goaltracker/config"
	"goaltracker/handlers"
	"goaltracker/middlewares"
	"goaltracker/services"
)

// Handlers bundles the HTTP handlers wired into the route table.
type Handlers struct {
	Goals    *handlers.GoalHandler
	Progress *handlers.ProgressHandler
	Summary  *handlers.SummaryHandler
	Users    *handlers.UserHandler
}

// SetupRoutes builds the ServeMux. Goal and summary routes require a
// JWT; progress routes additionally pass the tiered throttle. Goal
// numbers in paths are 1-based ordinals into the caller's own goals,
// not identifiers.
func SetupRoutes(h Handlers, jwtSecret string, store cache.Store, users services.UserService, throttleCfg config.ThrottleConfig) *http.ServeMux {
	mux := http.NewServeMux()

	jwt := middlewares.JWTMiddleware(jwtSecret)
	throttled := middlewares.TierThrottle("progress", store, users, throttleCfg)

	// Public routes
	mux.Handle("POST /api/user/{$}", http.HandlerFunc(h.Users.Register))
	mux.Handle("POST /api/login/{$}", http.HandlerFunc(h.Users.Login))
	mux.Handle("GET /api/users/{$}", http.HandlerFunc(h.Users.ListUsers))
	mux.Handle("GET /api/progress/{$}", http.HandlerFunc(h.Progress.ListAllProgress))

	// Goal routes
	mux.Handle("GET /api/goals/{$}", jwt(http.HandlerFunc(h.Goals.ListGoals)))
	mux.Handle("POST /api/goals/{$}", jwt(http.HandlerFunc(h.Goals.CreateGoal)))
	mux.Handle("GET /api/goals/{goalNum}", jwt(http.HandlerFunc(h.Goals.GetGoal)))
	mux.Handle("DELETE /api/goals/{goalNum}", jwt(http.HandlerFunc(h.Goals.DeleteGoal)))

	// Progress routes, throttled per account tier
	mux.Handle("GET /api/goals/{goalNum}/progress/{$}", jwt(throttled(http.HandlerFunc(h.Progress.ListProgress))))
	mux.Handle("POST /api/goals/{goalNum}/progress/{$}", jwt(throttled(http.HandlerFunc(h.Progress.CreateProgress))))
	mux.Handle("GET /api/goals/{goalNum}/progress/{progressNum}", jwt(throttled(http.HandlerFunc(h.Progress.GetProgress))))
	mux.Handle("PATCH /api/goals/{goalNum}/progress/{progressNum}", jwt(throttled(http.HandlerFunc(h.Progress.UpdateProgress))))

	// Summary routes, cached per user and selector
	mux.Handle("GET /api/summary/weekly/{$}", jwt(http.HandlerFunc(h.Summary.WeeklySummary)))
	mux.Handle("GET /api/summary/weekly/{goalNum}", jwt(http.HandlerFunc(h.Summary.WeeklySummary)))
	mux.Handle("GET /api/summary/monthly/{$}", jwt(http.HandlerFunc(h.Summary.MonthlySummary)))
	mux.Handle("GET /api/summary/monthly/{goalNum}", jwt(http.HandlerFunc(h.Summary.MonthlySummary)))

	return mux
}
