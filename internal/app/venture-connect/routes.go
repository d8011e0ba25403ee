// Package ventureconnect предоставляет маршруты для основного приложения.
package ventureconnect

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/venture-connect/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/venture-connect/internal/http/handlers/auth/register"
	connectioncreate "github.com/magabrotheeeer/venture-connect/internal/http/handlers/connection/create"
	connectionlist "github.com/magabrotheeeer/venture-connect/internal/http/handlers/connection/list"
	"github.com/magabrotheeeer/venture-connect/internal/http/handlers/health"
	interactionlist "github.com/magabrotheeeer/venture-connect/internal/http/handlers/interaction/list"
	interactionpending "github.com/magabrotheeeer/venture-connect/internal/http/handlers/interaction/pending"
	interactionremove "github.com/magabrotheeeer/venture-connect/internal/http/handlers/interaction/remove"
	interactionsend "github.com/magabrotheeeer/venture-connect/internal/http/handlers/interaction/send"
	interactionupdate "github.com/magabrotheeeer/venture-connect/internal/http/handlers/interaction/update"
	matchfind "github.com/magabrotheeeer/venture-connect/internal/http/handlers/match/find"
	matchsearch "github.com/magabrotheeeer/venture-connect/internal/http/handlers/match/search"
	notificationlist "github.com/magabrotheeeer/venture-connect/internal/http/handlers/notification/list"
	notificationmarkread "github.com/magabrotheeeer/venture-connect/internal/http/handlers/notification/markread"
	nudgebuy "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/buy"
	nudgehistory "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/history"
	nudgepurchases "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/purchases"
	nudgereceived "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/received"
	nudgesend "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/send"
	nudgeupdate "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/update"
	nudgewebhook "github.com/magabrotheeeer/venture-connect/internal/http/handlers/nudge/webhook"
	profileget "github.com/magabrotheeeer/venture-connect/internal/http/handlers/profile/get"
	profileinvestor "github.com/magabrotheeeer/venture-connect/internal/http/handlers/profile/investordetails"
	profileremove "github.com/magabrotheeeer/venture-connect/internal/http/handlers/profile/remove"
	profilestartup "github.com/magabrotheeeer/venture-connect/internal/http/handlers/profile/startupdetails"
	"github.com/magabrotheeeer/venture-connect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/venture-connect/internal/lib/jwt"
	"github.com/magabrotheeeer/venture-connect/internal/models"
	authservice "github.com/magabrotheeeer/venture-connect/internal/services/auth"
	connectionservice "github.com/magabrotheeeer/venture-connect/internal/services/connection"
	interactionservice "github.com/magabrotheeeer/venture-connect/internal/services/interaction"
	matchservice "github.com/magabrotheeeer/venture-connect/internal/services/match"
	notifyservice "github.com/magabrotheeeer/venture-connect/internal/services/notify"
	nudgeservice "github.com/magabrotheeeer/venture-connect/internal/services/nudge"
	userservice "github.com/magabrotheeeer/venture-connect/internal/services/user"
)

// Services собирает бизнес-логику приложения для регистрации маршрутов.
type Services struct {
	Auth        *authservice.AuthService
	User        *userservice.UserService
	Interaction *interactionservice.InteractionService
	Nudge       *nudgeservice.NudgeService
	Connection  *connectionservice.ConnectionService
	Match       *matchservice.MatchService
	Notify      *notifyservice.NotifyService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, jwtMaker))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/{uid}", profileget.New(logger, s.User).ServeHTTP)
			r.Put("/profile/investor", profileinvestor.New(logger, s.User).ServeHTTP)
			r.Put("/profile/startup", profilestartup.New(logger, s.User).ServeHTTP)
			r.Delete("/profile", profileremove.New(logger, s.User).ServeHTTP)

			r.Post("/interactions", interactionsend.New(logger, s.Interaction).ServeHTTP)
			r.Patch("/interactions/{id}", interactionupdate.New(logger, s.Interaction).ServeHTTP)
			r.Get("/interactions", interactionlist.New(logger, s.Interaction).ServeHTTP)
			r.Get("/interactions/pending", interactionpending.New(logger, s.Interaction).ServeHTTP)
			r.Delete("/interactions/{id}", interactionremove.New(logger, s.Interaction).ServeHTTP)

			r.Patch("/nudges/{id}", nudgeupdate.New(logger, s.Nudge).ServeHTTP)
			r.Get("/nudges/received", nudgereceived.New(logger, s.Nudge).ServeHTTP)
			r.Get("/nudges/purchases", nudgepurchases.New(logger, s.Nudge).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireUserType(logger, models.UserTypeStartup))
				r.Post("/nudges", nudgesend.New(logger, s.Nudge).ServeHTTP)
				r.Post("/nudges/buy", nudgebuy.New(logger, s.Nudge).ServeHTTP)
				r.Get("/matches", matchfind.New(logger, s.Match).ServeHTTP)
				r.Get("/investors/search", matchsearch.New(logger, s.Match).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireUserType(logger, models.UserTypeInvestor))
				r.Get("/nudges/history", nudgehistory.New(logger, s.Nudge).ServeHTTP)
				r.Post("/connections", connectioncreate.New(logger, s.Connection).ServeHTTP)
			})

			r.Get("/connections", connectionlist.New(logger, s.Connection).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, s.Notify).ServeHTTP)
			r.Post("/notifications/read", notificationmarkread.New(logger, s.Notify).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", nudgewebhook.New(logger, s.Nudge).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
