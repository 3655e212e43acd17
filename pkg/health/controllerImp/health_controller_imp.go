package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rajeev-sr/iPlanFarmHouse/pkg/health/controller"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repository"
)

var appStart = time.Now()

type healthCtrl struct {
	db    *gorm.DB
	tasks repository.TaskRepository
}

func NewHealthCtrl(db *gorm.DB, tasks repository.TaskRepository) controller.HealthController {
	return &healthCtrl{db: db, tasks: tasks}
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *healthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := check{OK: true}
	if h.db == nil {
		db = check{Err: "gorm db is nil"}
	} else if sqlDB, err := h.db.DB(); err != nil {
		db = check{Err: "db.DB(): " + err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db = check{Err: "ping: " + err.Error()}
	}

	var counts map[string]int64
	if db.OK {
		var err error
		if counts, err = h.tasks.CountByStatus(ctx); err != nil {
			db = check{Err: "count: " + err.Error()}
		}
	}

	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{
		"status":     echo.Map{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     echo.Map{"database": db},
		"tasks":      counts,
		"time":       time.Now().Format(time.RFC3339),
	})
}
