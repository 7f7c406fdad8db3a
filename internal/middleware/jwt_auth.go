package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/anonto42/social-network/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "user"

// CurrentUser returns the user loaded by the auth middleware
func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userContextKey).(*models.User)
	return u, ok && u != nil
}

// SetCurrentUser stores u as the authenticated user
func SetCurrentUser(c echo.Context, u *models.User) {
	c.Set(userContextKey, u)
}

// IssueToken signs a local JWT for user
func IssueToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errMissingUserID           = errors.New("token carries no user id")
)

// parseToken validates a local JWT and returns its user id
func parseToken(secret, tokenString string) (string, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", errMissingUserID
	}
	return claims.UserID, nil
}

// JWTAuthMiddleware checks for a bearer token and loads the current user
// through the resolver, so every request sees the stored user. A local JWT
// is tried first; when verifier is non-nil a Firebase ID token is accepted too.
func JWTAuthMiddleware(secret string, res *resolver.Resolver, verifier firebase.TokenVerifier, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}
			ctx := c.Request().Context()

			var user *models.User
			userID, jwtErr := parseToken(secret, tokenString)
			switch {
			case jwtErr == nil:
				user, err = res.FindUserByID(ctx, userID)
			case verifier != nil:
				user, err = FirebaseUser(ctx, verifier, res, tokenString)
			default:
				log.Debug("rejected token", zap.Error(jwtErr))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if err != nil {
				log.Debug("token user not resolved", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}
