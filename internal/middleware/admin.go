package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireAdmin lets through only authenticated users whose email is listed
// in emails. It must run after JWTAuthMiddleware. An empty list refuses
// everyone.
func RequireAdmin(emails []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !isAdmin(emails, user.Email) {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

func isAdmin(emails []string, email string) bool {
	if email == "" {
		return false
	}
	for _, admin := range emails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
