package routes

import (
	"net/http"
	"time"

	"project/controllers"
	"project/controllers/auth"
	"project/controllers/users"
	"project/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers all user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// General session limiter: 120 per IP per minute
	sessionLimiter := middleware.NewIPRateLimiter(120, time.Minute)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/logout", sessionLimiter.Middleware(http.HandlerFunc(auth.LogoutHandler))).Methods(http.MethodPost)

	// Change password
	api.Handle("/users/change-password", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// Public: list plans
	api.Handle("/plans", sessionLimiter.Middleware(http.HandlerFunc(controllers.PlanListHandler))).Methods(http.MethodGet)

	// User info
	api.Handle("/users/info", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)

	// Investments
	api.Handle("/users/investments", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListInvestmentsHandler)))).Methods(http.MethodGet)

	// Ledgers
	api.Handle("/users/income", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.IncomeHistoryHandler)))).Methods(http.MethodGet)
	api.Handle("/users/transactions", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)

	// Team
	api.Handle("/users/team-invited", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TeamInvitedHandler)))).Methods(http.MethodGet)
	api.Handle("/users/team-invited/{level:[0-9]+}", sessionLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TeamInvitedHandler)))).Methods(http.MethodGet)
}
