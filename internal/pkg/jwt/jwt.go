package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingClaims       = errors.New("token claims missing from context")
	ErrOrganizationMissing = errors.New("organization_id claim is missing or invalid")
)

// Claims is the typed view of an access token used by services.
type Claims struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           string
}

type Service interface {
	GenerateAccessToken(userID, email string, organizationID *string, role string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// NewContext verifies tokenString and stores it in ctx the same way
	// jwtauth.Verifier does for header tokens.
	NewContext(ctx context.Context, tokenString string) (context.Context, error)
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID, email string, organizationID *string, role string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    "access",
		"exp":     expiresAt,
	}
	if organizationID != nil {
		claims["organization_id"] = *organizationID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) NewContext(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return ctx, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

// ClaimsFromContext extracts the access token claims placed by the auth middleware.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if claims == nil {
		return Claims{}, ErrMissingClaims
	}

	c := Claims{}
	c.UserID, _ = claims["user_id"].(string)
	c.Email, _ = claims["email"].(string)
	c.OrganizationID, _ = claims["organization_id"].(string)
	c.Role, _ = claims["role"].(string)
	if c.UserID == "" {
		return Claims{}, ErrMissingClaims
	}
	return c, nil
}

// OrganizationIDFromContext returns the caller's organization or ErrOrganizationMissing.
func OrganizationIDFromContext(ctx context.Context) (string, error) {
	c, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	if c.OrganizationID == "" {
		return "", ErrOrganizationMissing
	}
	return c.OrganizationID, nil
}
