// internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func serve(t *testing.T, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var gotUser, gotEmail string
	h := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("ValidToken", func(t *testing.T) {
		token, err := IssueToken(testSecret, "user-1", "u1@example.com", "", time.Minute)
		require.NoError(t, err)

		rec := serve(t, h, "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", gotUser)
		assert.Equal(t, "u1@example.com", gotEmail)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		rec := serve(t, h, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongScheme", func(t *testing.T) {
		rec := serve(t, h, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := IssueToken([]byte("other"), "user-1", "", "", time.Minute)
		require.NoError(t, err)

		rec := serve(t, h, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := IssueToken(testSecret, "user-1", "", "", -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Equal(t, http.StatusUnauthorized, serve(t, h, "Bearer "+token).Code)
	})

	t.Run("NoneAlgorithmRejected", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		token, err := IssueToken(testSecret, "", "", "", time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRequireRole(t *testing.T) {
	h := Authenticate(testSecret)(RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	admin, err := IssueToken(testSecret, "ops", "", RoleAdmin, time.Minute)
	require.NoError(t, err)
	user, err := IssueToken(testSecret, "user-1", "", "", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, serve(t, h, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, "Bearer "+user).Code)
}
