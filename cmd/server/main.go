package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"slices"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/rajeev-sr/iPlanFarmHouse/config"
	"github.com/rajeev-sr/iPlanFarmHouse/database"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/logging"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/middleware"
	"github.com/rajeev-sr/iPlanFarmHouse/router"

	// Auth
	authCtrlImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/auth/controllerImp"
	userRepoImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/user/repositoryImp"

	// Tasks
	taskCtrlImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/task/controllerImp"
	taskRepoImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repositoryImp"
	taskSvcImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/task/serviceImp"

	// Health
	healthCtrlImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/health/controllerImp"
)

func main() {
	// 1) Config + logging
	cfg := config.Load()
	log, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	log.WithField("port", cfg.Port).WithField("db", cfg.DBPath).WithField("tz", cfg.Timezone).Info("[cfg] loaded")
	loc := cfg.Location(log)

	// 2) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath, cfg.DBDebug)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}

	// 3) Repos / services / controllers
	tRepo := taskRepoImp.New(db)
	uRepo := userRepoImp.New(db)
	tSvc := taskSvcImp.NewTaskService(tRepo, uRepo, loc, taskSvcImp.WithLogger(log))

	tCtrl := taskCtrlImp.New(tSvc, log)
	aCtrl := authCtrlImp.NewAuthController(uRepo, log)
	hCtrl := healthCtrlImp.NewHealthCtrl(db, tRepo)

	// 4) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		// browsers drop cookies on a wildcard origin anyway
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
	}))
	router.New(e, tCtrl, aCtrl, hCtrl)

	// 5) Start
	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	// 6) Shutdown: stop taking requests, then close the store and log file
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http+db": func(ctx context.Context) error {
				log.Info("shutting down")
				httpErr := e.Shutdown(ctx)
				dbErr := database.Close(db)
				return errors.Join(httpErr, dbErr)
			},
		},
	)
	code := <-wait
	log.WithField("code", code).Info("exited")
	_ = closeLog()
	os.Exit(code)
}
