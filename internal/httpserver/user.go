package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/service"
	"github.com/luisfernandomp/ApiDataDriven/internal/transport"
)

type UserHTTP struct {
	Svc *service.AuthService
}

// Register creates a user. The role is forced server side; whatever the
// client put in the role field is ignored.
func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrUserAlreadyExist):
			l.Warn("register_error", "status", 400, "reason", "duplicate username")
			return echo.NewHTTPError(http.StatusBadRequest, "could not create a new user")
		default:
			l.Error("register_error", "status", 400, "reason", "persistence", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "could not create a new user")
		}
	}

	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, token, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 404, "username", req.Username)
			return echo.NewHTTPError(http.StatusNotFound, "invalid username or password")
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	l.Info("login_success", "userID", user.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		User:  transport.NewUserResponse(user),
		Token: token,
	})
}
