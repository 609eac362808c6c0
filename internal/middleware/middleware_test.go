package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/auth"
	"postboard/internal/config"
)

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestPrincipalMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecretKey: "test-secret"}

	tests := []struct {
		name            string
		authHeader      string
		expectStatus    int
		expectPrincipal string
	}{
		{
			name:            "valid token yields the principal",
			authHeader:      "Bearer " + signToken(t, "test-secret", "u1"),
			expectStatus:    http.StatusOK,
			expectPrincipal: "u1",
		},
		{
			name:         "no header passes through unauthenticated",
			authHeader:   "",
			expectStatus: http.StatusOK,
		},
		{
			name:         "malformed header is rejected",
			authHeader:   "tok-without-scheme",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "token signed with another key is rejected",
			authHeader:   "Bearer " + signToken(t, "wrong-secret", "u1"),
			expectStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrincipal string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPrincipal, _ = auth.PrincipalFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			Principal(cfg)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectStatus, w.Code)
			assert.Equal(t, tt.expectPrincipal, gotPrincipal)
		})
	}
}
