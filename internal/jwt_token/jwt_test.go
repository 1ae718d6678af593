package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
	time.Hour,
)

func Test_IssueAndValidate(t *testing.T) {
	screeningID := id.NewScreeningID()
	now := time.Now()

	token, expiresAt, err := jwtService.Issue(screeningID, "waiver", now)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	got, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, screeningID, got)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.ErrorContains(t, err, "invalid resume token")
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, _, err := jwtService.Issue(id.NewScreeningID(), "work", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.ErrorContains(t, err, "expired")
}

func Test_ValidateToken_WrongKeyOrAudience(t *testing.T) {
	screeningID := id.NewScreeningID()

	other := NewJWTService("other-key", "test-issuer", "test-audience", time.Hour)
	token, _, err := other.Issue(screeningID, "waiver", time.Now())
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid resume token")

	otherAudience := NewJWTService("test-signing-key", "test-issuer", "staff", time.Hour)
	token, _, err = otherAudience.Issue(screeningID, "waiver", time.Now())
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid resume token")
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		ScreeningID: id.NewScreeningID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(signed)
	assert.ErrorContains(t, err, "invalid resume token")
}
