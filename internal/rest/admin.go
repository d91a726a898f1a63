package rest

import (
	"io"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"pawScout/business/interview"
	"pawScout/pkg/logger"
)

type (
	AdminHandler struct {
		adminService AdminService
		passwordHash string
	}

	// AdminService reloads the domain content and reports catalog stats.
	AdminService interface {
		Reload() error
		Stats() interview.Stats
	}
)

func NewAdminHandler(svc AdminService, passwordHash string) *AdminHandler {
	return &AdminHandler{adminService: svc, passwordHash: passwordHash}
}

// authorize compares the X-Admin-Password header against the configured
// bcrypt hash.
func (h *AdminHandler) authorize(c echo.Context) bool {
	if h.passwordHash == "" {
		return false
	}
	password := c.Request().Header.Get("X-Admin-Password")
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(password)) == nil
}

// POST /admin/reload
func (h *AdminHandler) Reload(c echo.Context) error {
	if !h.authorize(c) {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.adminService.Reload(); err != nil {
		logger.Error("Content reload failed", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	logger.Info("content reloaded")
	return c.JSON(http.StatusOK, fres.Response.StatusOK("content reloaded"))
}

// GET /admin/stats
func (h *AdminHandler) Stats(c echo.Context) error {
	if !h.authorize(c) {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.adminService.Stats()))
}

func readBody(c echo.Context) ([]byte, error) {
	defer c.Request().Body.Close()
	return io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
}
