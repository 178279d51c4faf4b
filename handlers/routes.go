package handlers

import (
	"ff-portal/middleware"
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
)

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Identity    services.IdentityProvider
	Accounts    *services.AccountService
	Tournaments *services.TournamentService
	Wallet      *services.WalletService
	Support     *services.SupportService
	Content     *services.ContentService
	Rewards     *services.RewardService
	Stream      *services.StreamService
}

// Setup mounts every route: public auth endpoints, the SSE stream, the
// session-protected /s group and the admin-only /admin group.
func Setup(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := app.Group("/auth")
	auth.Post("/register", d.Accounts.RegisterUser)
	auth.Post("/login", d.Accounts.LoginUser)
	auth.Post("/federated", d.Accounts.FederatedLoginUser)
	auth.Post("/logout", middleware.SessionMiddleware(d.Identity), d.Accounts.LogoutUser)

	app.Get("/stream", middleware.SSEAuthMiddleware(d.Identity), d.Stream.StreamUpdates)

	// 🔐 Authenticated routes
	secured := app.Group("/s", middleware.SessionMiddleware(d.Identity))
	secured.Get("/me", d.Accounts.GetMe)

	// 🔒 Admin-only routes
	admin := app.Group("/admin", middleware.SessionMiddleware(d.Identity), middleware.AdminOnly())
	admin.Get("/users", d.Accounts.SearchUsers)

	SetupTournamentRoutes(secured, admin, d.Tournaments)
	SetupWalletRoutes(secured, admin, d.Wallet)
	SetupContentRoutes(secured, admin, d.Content, d.Support)
	SetupRewardRoutes(admin, d.Rewards)
}
