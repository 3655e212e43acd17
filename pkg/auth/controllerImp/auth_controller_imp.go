package controllerImp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/auth/controller"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/logging"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/middleware"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/user/repository"
)

type authCtrl struct {
	users repository.UserRepository
	log   logrus.FieldLogger
}

func NewAuthController(users repository.UserRepository, log logrus.FieldLogger) controller.AuthController {
	return &authCtrl{users: users, log: logging.For(log, "auth")}
}

func (h *authCtrl) Users(c echo.Context) error {
	us, err := h.users.List(c.Request().Context())
	if err != nil {
		h.log.WithError(err).Error("list users")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": us})
}

// Login picks a user by id, or the first user holding a role, and remembers
// the choice in the identity cookie. There is no password.
func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	body.Role = strings.ToLower(strings.TrimSpace(body.Role))

	ctx := c.Request().Context()
	var (
		u   *entities.User
		err error
	)
	switch {
	case body.UserID != 0:
		u, err = h.users.FindByID(ctx, body.UserID)
	case body.Role != "":
		if !entities.ValidRole(body.Role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin, manager or worker"})
		}
		u, err = h.users.FirstByRole(ctx, body.Role)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId or role is required"})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		h.log.WithError(err).Error("login lookup")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	middleware.SetIdentity(c, u.ID)
	h.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("login")
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	u, err := h.users.FindByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		// stale cookie for a removed user
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	if err != nil {
		h.log.WithError(err).Error("whoami lookup")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
