package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	authmw "organmatch/pkg/platform/middleware/auth"
)

// Claims identifies the hospital (tenant) a caller acts for.
type Claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 tenant tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateTenantToken is used by operators (matchctl token) and tests; the
// registration workflow normally issues tokens itself with the shared key.
func (s *JWTService) GenerateTenantToken(tenantID id.TenantID, subject string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if _, err := id.ParseTenantID(claims.TenantID); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no tenant")
	}
	return claims, nil
}

// VerifyTenant lets the service guard routes with authmw.RequireTenant.
func (s *JWTService) VerifyTenant(token string) (*authmw.JWTClaims, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		TenantID: id.TenantID(claims.TenantID),
		Subject:  claims.Subject,
	}, nil
}
