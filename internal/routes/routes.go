package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/oceandive/divemarket/internal/handlers"
	"github.com/oceandive/divemarket/internal/middleware"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/oceandive/divemarket/internal/services"
)

func Setup(
	app *fiber.App,
	tokens *services.TokenService,
	authHandler *handlers.AuthHandler,
	socialHandler *handlers.SocialHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Credential endpoints get a stricter limit: 10 req/min per IP
	strict := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	authed := middleware.TokenProtected(tokens)

	// One identical route set per role; the guard pins each group to its
	// own role.
	for _, role := range []models.Role{models.RoleMember, models.RoleProvider, models.RoleAdmin} {
		g := api.Group("/" + string(role))
		guard := middleware.RoleRequired(role)

		g.Post("/register", strict, authHandler.Register(role))
		g.Post("/login", strict, authHandler.Login(role))
		g.Post("/logout", authed, guard, authHandler.Logout(role))
		g.Get("/profile", authed, guard, authHandler.Profile)
		g.Put("/profile", authed, guard, authHandler.UpdateProfile(role))
		g.Put("/change-password", authed, guard, authHandler.ChangePassword)
	}

	// Admin cross-role lookup
	adminGuard := middleware.RoleRequired(models.RoleAdmin)
	api.Get("/admin/check-member/:id", authed, adminGuard, authHandler.CheckUser(models.RoleMember))
	api.Get("/admin/check-provider/:id", authed, adminGuard, authHandler.CheckUser(models.RoleProvider))

	// Role-agnostic authenticated routes
	api.Post("/logout", authed, authHandler.GenericLogout)
	api.Get("/user", authed, authHandler.CurrentUser)

	// Google federated login (members only, enforced in the service)
	api.Get("/auth/google/redirect", strict, socialHandler.Redirect)
	api.Get("/auth/google/callback", strict, socialHandler.Callback)
}
