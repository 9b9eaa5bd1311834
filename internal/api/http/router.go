package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/api/http/handlers"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Animals        *handlers.AnimalsHandler
	Posts          *handlers.PostsHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Reads are open; mutations carry the
// bearer-token middleware plus, where the action demands it, a static role
// pre-condition.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	authn := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", authn, cfg.Auth.Logout)
	authGroup.Post("/assign-role", authn, auth.RequireRole(domain.RoleAdmin), cfg.Auth.AssignRole)

	users := api.Group("/users", authn, auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id/activate", cfg.Users.Activate)
	users.Put("/:id/deactivate", cfg.Users.Deactivate)

	animals := api.Group("/animals")
	animals.Get("/", cfg.Animals.List)
	animals.Get("/:id", cfg.Animals.Get)
	animals.Post("/", authn, auth.RequireRole(domain.RoleAdmin), cfg.Animals.Create)
	animals.Put("/:id", authn, cfg.Animals.Update)
	animals.Delete("/:id", authn, auth.RequireRole(domain.RoleAdmin), cfg.Animals.Delete)
	animals.Patch("/:id/adopt", authn, auth.RequireRole(domain.RoleAdmin, domain.RoleModerator), cfg.Animals.Adopt)

	posts := api.Group("/posts")
	posts.Get("/", cfg.Posts.List)
	posts.Get("/:id", cfg.Posts.Get)
	posts.Get("/:id/comments", cfg.Posts.ListComments)
	posts.Post("/", authn, auth.RequireRole(domain.RoleAdmin, domain.RoleModerator), cfg.Posts.Create)
	posts.Put("/:id", authn, cfg.Posts.Update)
	posts.Delete("/:id", authn, auth.RequireRole(domain.RoleAdmin, domain.RoleModerator), cfg.Posts.Delete)

	comments := api.Group("/comments")
	comments.Get("/", cfg.Comments.List)
	comments.Get("/:id", cfg.Comments.Get)
	comments.Post("/", authn, cfg.Comments.Create)
	comments.Put("/:id", authn, cfg.Comments.Update)
	comments.Delete("/:id", authn, cfg.Comments.Delete)
}
