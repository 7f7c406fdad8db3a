package middleware

import (
	"context"
	"fmt"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/anonto42/social-network/pkg/firebase"
)

// FirebaseUser verifies a Firebase ID token and resolves the local user
// registered under its email claim.
func FirebaseUser(ctx context.Context, verifier firebase.TokenVerifier, res *resolver.Resolver, idToken string) (*models.User, error) {
	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify firebase token: %w", err)
	}
	email, ok := firebase.EmailClaim(token)
	if !ok {
		return nil, fmt.Errorf("firebase token without verified email: %w", apperrors.ErrNotFound)
	}
	return res.FindUserByEmail(ctx, email)
}

