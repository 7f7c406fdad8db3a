package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/middleware"
	"github.com/anonto42/social-network/internal/models"
	"github.com/labstack/echo/v4"
)

// httpError maps a domain error to an HTTP error. Unknown errors become a
// bare 500 and keep their cause as Internal for the request logger.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyLiked),
		errors.Is(err, apperrors.ErrNotLiked),
		errors.Is(err, apperrors.ErrAmbiguousResult):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}

// currentUser returns the authenticated user or a 401
func currentUser(c echo.Context) (*models.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return u, nil
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}
