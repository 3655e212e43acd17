package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	authCtrl "github.com/rajeev-sr/iPlanFarmHouse/pkg/auth/controller"
	healthCtrl "github.com/rajeev-sr/iPlanFarmHouse/pkg/health/controller"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/middleware"
	taskCtrl "github.com/rajeev-sr/iPlanFarmHouse/pkg/task/controller"
)

// Imports parse whole workbooks in memory; each client gets a small
// per-IP allowance.
const (
	importRate  = rate.Limit(1)
	importBurst = 5
)

func New(
	e *echo.Echo,
	tasks taskCtrl.TaskController,
	auth authCtrl.AuthController,
	health healthCtrl.HealthController,
) *echo.Echo {
	e.Use(middleware.Identity())
	e.GET("/health", health.Health)

	api := e.Group("")
	api.GET("/whoami", auth.WhoAmI)
	api.GET("/auth/users", auth.Users)
	api.POST("/auth/login", auth.Login)

	t := api.Group("/tasks")
	t.GET("", tasks.List)
	t.POST("", tasks.Create)
	t.POST("/import", tasks.Import, echoMiddleware.RateLimiter(
		echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
			Rate:  importRate,
			Burst: importBurst,
		}),
	))
	t.PATCH("/:id/complete", tasks.Complete)
	t.GET("/calendar/:month", tasks.Calendar)
	t.GET("/calendar/:month/export", tasks.Export)
	return e
}
