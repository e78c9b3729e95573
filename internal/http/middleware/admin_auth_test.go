package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedAdminToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAdminJWT(secret, header string) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := AdminJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/barbers", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestAdminJWTRejectsWhenDisabled(t *testing.T) {
	rec, called := runAdminJWT("", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestAdminJWTRejectsMissingHeader(t *testing.T) {
	rec, called := runAdminJWT("secret", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestAdminJWTRejectsWrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "admin-user"})
	signed, err := token.SignedString([]byte("wrong"))
	require.NoError(t, err)

	rec, called := runAdminJWT("secret", "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
}

func TestAdminJWTAcceptsValidToken(t *testing.T) {
	var gotClaims bool
	handler := AdminJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotClaims = AdminClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/barbers", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotClaims)
}
