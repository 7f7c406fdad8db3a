package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/social-network/internal/accounts"
	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/middleware"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/anonto42/social-network/pkg/firebase"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts  *accounts.Service
	resolver  *resolver.Resolver
	verifier  firebase.TokenVerifier
	jwtSecret string
	jwtTTL    time.Duration
	validate  *validator.Validate
	log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil, which
// disables Firebase log-in.
func NewAuthHandler(acc *accounts.Service, res *resolver.Resolver, verifier firebase.TokenVerifier, jwtSecret string, jwtTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  acc,
		resolver:  res,
		verifier:  verifier,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		validate:  validator.New(),
		log:       log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup registers a user with email and password and returns a token
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.SignUp(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	token, err := middleware.IssueToken(h.jwtSecret, h.jwtTTL, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}
	return success(c, http.StatusCreated, echo.Map{"token": token, "user": user})
}

// SignIn checks email and password and returns a token
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.LogIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return httpError(err)
	}

	token, err := middleware.IssueToken(h.jwtSecret, h.jwtTTL, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return success(c, http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a Firebase ID token for a local JWT. The token's
// email must belong to a registered user.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := middleware.FirebaseUser(c.Request().Context(), h.verifier, h.resolver, req.IDToken)
	if err != nil {
		h.log.Debug("firebase login rejected", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	token, err := middleware.IssueToken(h.jwtSecret, h.jwtTTL, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}
	return success(c, http.StatusOK, echo.Map{"token": token, "user": user})
}
