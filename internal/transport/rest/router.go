package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/service"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Deps struct {
	Pinger         Pinger
	Tokens         *auth.TokenManager
	Identity       *service.IdentityService
	Fittings       *service.FittingService
	Swings         *service.SwingService
	GettingStarted *service.GettingStartedService
	AdminTasks     *service.AdminTaskService
	Location       *time.Location
}

const healthTimeout = 2 * time.Second

func NewRouter(d Deps) *gin.Engine {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		if d.Pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := d.Pinger.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := NewAuthHandler(d.Identity)
	fittingH := NewFittingHandler(d.Fittings, loc)
	swingH := NewSwingHandler(d.Swings, loc)
	messageH := NewGettingStartedHandler(d.GettingStarted)
	taskH := NewAdminTaskHandler(d.AdminTasks)

	api := r.Group("/api/v1")

	// public
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	authed := api.Group("")
	authed.Use(JWTAuth(d.Tokens))
	admin := authed.Group("")
	admin.Use(RequireAdmin())

	authed.GET("/auth/me", authH.Me)
	authed.PUT("/auth/users/me", authH.UpdateMe)
	authed.GET("/auth/users/:id", authH.GetUser)
	admin.GET("/auth/users", authH.ListUsers)
	admin.PUT("/auth/users/:id", authH.UpdateUser)

	authed.POST("/fitting-request", fittingH.Create)
	authed.GET("/fitting-request/:id", fittingH.Get)
	authed.PUT("/fitting-request/:id", fittingH.Update)
	authed.PATCH("/fitting-request/:id/reschedule", fittingH.Reschedule)
	authed.GET("/fitting-requests/:userId", fittingH.ListByUser)
	admin.GET("/fitting-requests", fittingH.List)
	admin.PATCH("/fitting-request/:id/:newStatus", fittingH.SetStatus)
	admin.DELETE("/fitting-request/:id", fittingH.Delete)
	admin.GET("/fitting-request/:id/tasks", taskH.ListForFitting)

	authed.POST("/swing-analysis", swingH.Create)
	authed.GET("/swing-analysis/:id", swingH.Get)
	authed.PUT("/swing-analysis/:id", swingH.Update)
	authed.GET("/swing-analysis/user/:userId", swingH.ListByUser)
	admin.GET("/swing-analysis", swingH.List)
	admin.PATCH("/swing-analysis/:id/:newStatus", swingH.SetStatus)
	admin.DELETE("/swing-analysis/:id", swingH.Delete)

	authed.GET("/getting-started", messageH.List)
	authed.GET("/getting-started/active", messageH.Active)
	authed.GET("/getting-started/:id", messageH.Get)
	admin.POST("/getting-started", messageH.Create)
	admin.PUT("/getting-started/:id", messageH.Update)
	admin.DELETE("/getting-started/:id", messageH.Delete)

	admin.GET("/task-types", taskH.Types)
	admin.GET("/task-type/:type", taskH.Type)
	admin.POST("/task", taskH.Create)

	return r
}
