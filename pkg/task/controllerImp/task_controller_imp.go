package controllerImp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/logging"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/controller"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/importer"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportBytes caps an uploaded sheet.
const maxImportBytes = 5 << 20

type taskCtrl struct {
	svc service.TaskService
	log logrus.FieldLogger
}

func New(svc service.TaskService, log logrus.FieldLogger) controller.TaskController {
	return &taskCtrl{svc: svc, log: logging.For(log, "task")}
}

func (h *taskCtrl) List(c echo.Context) error {
	raw := c.QueryParam("date")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	day, err := civil.ParseDate(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	uid, err := userFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	tasks, err := h.svc.ForDate(c.Request().Context(), day, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks, "date": day})
}

func (h *taskCtrl) Create(c echo.Context) error {
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	t, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"task": service.NewDayTask(*t, false)})
}

func (h *taskCtrl) Complete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad task id"})
	}
	t, err := h.svc.Complete(c.Request().Context(), uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"task": service.NewDayTask(*t, false)})
}

func (h *taskCtrl) Calendar(c echo.Context) error {
	m, uid, err := monthAndUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sum, err := h.svc.Calendar(c.Request().Context(), m, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *taskCtrl) Export(c echo.Context) error {
	m, uid, err := monthAndUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	b, err := h.svc.Export(c.Request().Context(), m, uid)
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tasks-%s.xlsx"`, m))
	return c.Blob(http.StatusOK, xlsxMIME, b)
}

func (h *taskCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > maxImportBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	rows, err := importer.Parse(fh.Filename, f)
	if err != nil {
		// the upload itself is malformed, not the server
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	tasks, err := h.svc.Import(c.Request().Context(), rows)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]service.DayTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, service.NewDayTask(t, false))
	}
	return c.JSON(http.StatusCreated, echo.Map{"tasks": out, "count": len(out)})
}

func (h *taskCtrl) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}
	h.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
}

func userFilter(c echo.Context) (*uint, error) {
	raw := c.QueryParam("userId")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, errors.New("userId must be a positive integer")
	}
	id := uint(n)
	return &id, nil
}

func monthAndUser(c echo.Context) (civil.Month, *uint, error) {
	m, err := civil.ParseMonth(c.Param("month"))
	if err != nil {
		return civil.Month{}, nil, errors.New("month must be YYYY-MM")
	}
	uid, err := userFilter(c)
	return m, uid, err
}
