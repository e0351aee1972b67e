package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // the Echo web framework handles routing
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/dynamic-form-builder/internal/config"
    "github.com/iliyamo/dynamic-form-builder/internal/handler"
    "github.com/iliyamo/dynamic-form-builder/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems probe this endpoint to verify
    // the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Operations that do not require an existing session (register, login,
    // refresh).  Each handler generates or exchanges tokens itself.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // /refresh rotates the refresh token; /refresh-access issues a new
    // access token while reusing the existing refresh token.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT authentication: the handler accepts a
    // refresh_token in the body (revokes that session) or a bearer token
    // (revokes all of the user's sessions).
    g.POST("/logout", a.Logout)

    // Protected endpoints under /v1 require a valid access token with a
    // known role.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("STAFF", "USER"))
    auth.GET("/me", a.Me)

    // Clients can also call /v1/logout with a refresh token in the body to
    // terminate a session without presenting an access token.
    e.POST("/v1/logout", a.Logout)
}

// RegisterForms registers form, field, submission and user-management
// routes.  All of them require a valid access token; write operations on
// forms, fields and users additionally require the STAFF role.  Listing
// endpoints get the Redis response cache when a client is available.
func RegisterForms(
    e *echo.Echo,
    cfg config.Config,
    f *handler.FormHandler,
    fd *handler.FieldHandler,
    s *handler.SubmissionHandler,
    u *handler.UserHandler,
    rdb *redis.Client,
) {
    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(cfg.JWTSecret))
    v1.Use(middleware.RequireRole("STAFF", "USER"))

    // Cache only GET list endpoints; mutations must always hit the stores.
    var cache echo.MiddlewareFunc
    if rdb != nil {
        cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    }
    withCache := func(h echo.HandlerFunc) echo.HandlerFunc {
        if cache == nil {
            return h
        }
        return cache(h)
    }

    // Forms: listing is role-scoped inside the handler (staff see their own
    // forms, users their assigned ones); mutations are staff-only.
    v1.GET("/forms", withCache(f.ListForms))
    staff := v1.Group("")
    staff.Use(middleware.RequireRole("STAFF"))
    staff.POST("/forms", f.CreateForm)
    staff.PATCH("/forms/:id", f.UpdateForm)
    staff.DELETE("/forms/:id", f.DeleteForm)

    // Fields: reads are open to any authenticated user, writes are
    // staff-only.
    v1.GET("/forms/:id/fields", withCache(fd.ListFields))
    staff.POST("/forms/:id/fields", fd.CreateField)
    staff.PATCH("/fields/:id", fd.UpdateField)
    staff.DELETE("/fields/:id", fd.DeleteField)
    staff.POST("/fields/reorder", fd.ReorderFields)

    // Submissions: any authenticated user may submit against an active
    // form; the listing is role-scoped inside the handler.
    v1.POST("/forms/:id/submit", s.SubmitForm)
    v1.GET("/submissions", s.ListSubmissions)

    // Staff user management and form assignment.
    staff.POST("/users", u.CreateUser)
    staff.GET("/users", u.ListUsers)
    staff.POST("/users/:id/forms", u.AssignForms)
}
