// Package jwttoken issues and validates resume tokens: HS256 JWTs that bind
// a browser to one in-flight screening.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
)

// Claims carries the screening a token resumes.
type Claims struct {
	ScreeningID string `json:"screening_id"`
	Variant     string `json:"variant"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies resume tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
}

func NewJWTService(signingKey string, issuer string, audience string, ttl time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
	}
}

// Issue signs a token for the screening, valid for the service TTL from now.
func (s *JWTService) Issue(screeningID id.ScreeningID, variant string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ScreeningID: screeningID.String(),
		Variant:     variant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   screeningID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expiresAt, nil
}

// ValidateToken verifies signature, issuer, audience and expiry and returns
// the bound screening id.
func (s *JWTService) ValidateToken(tokenString string) (id.ScreeningID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.ScreeningID{}, dErrors.New(dErrors.CodeUnauthorized, "resume token has expired")
		}
		return id.ScreeningID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid resume token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return id.ScreeningID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid resume token")
	}
	screeningID, err := id.ParseScreeningID(claims.ScreeningID)
	if err != nil {
		return id.ScreeningID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid resume token claims")
	}
	return screeningID, nil
}
