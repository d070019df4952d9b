package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_StoresClaims(t *testing.T) {
	secret := []byte("s3cret")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops", "role": RoleAdmin}).SignedString(secret)
	require.NoError(t, err)

	var subject, role string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = GetSubjectFromContext(r.Context())
		role, _ = GetUserRoleFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	Authenticate(secret)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", subject)
	assert.Equal(t, RoleAdmin, role)
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": RoleAdmin}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+unsigned)
	rec := httptest.NewRecorder()
	Authenticate([]byte("s3cret"))(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClaimsHelpers_WithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetSubjectFromContext(req.Context())
	assert.Error(t, err)
	_, err = GetUserRoleFromContext(req.Context())
	assert.Error(t, err)

	rec := httptest.NewRecorder()
	Authorize(RoleAdmin)(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
