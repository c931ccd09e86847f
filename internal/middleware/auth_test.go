package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func signToken(t *testing.T, secret string, adminID int64, username string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"sub":      username,
		"exp":      time.Now().Add(expiresIn).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestProperty_RequestsWithoutTokenRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			middleware := AuthMiddleware("test-secret", zap.NewNop())

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			path := "/" + pathSuffix
			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidTokenCarriesIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a valid token puts admin id and username on the context", prop.ForAll(
		func(adminID int64, username string) bool {
			middleware := AuthMiddleware("test-secret", zap.NewNop())

			var gotID int64
			var gotUsername string
			var idOK, nameOK bool
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, idOK = GetAdminID(r.Context())
				gotUsername, nameOK = GetAdminUsername(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			token := signToken(t, "test-secret", adminID, username, time.Hour)
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Logf("FAIL: valid token rejected with %d", w.Code)
				return false
			}
			if !idOK || gotID != adminID {
				t.Logf("FAIL: context admin id = %d (%v), want %d", gotID, idOK, adminID)
				return false
			}
			if !nameOK || gotUsername != username {
				t.Logf("FAIL: context username = %q (%v), want %q", gotUsername, nameOK, username)
				return false
			}
			return true
		},
		gen.Int64Range(1, 1<<31),
		gen.RegexMatch(`[a-z]{3,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthRejectsBadTokens(t *testing.T) {
	middleware := AuthMiddleware("test-secret", zap.NewNop())
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"malformed header", "NotBearer xyz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", 1, "admin", time.Hour)},
		{"expired token", "Bearer " + signToken(t, "test-secret", 1, "admin", -time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

// Tokens without the admin claims are rejected even when the signature
// verifies.
func TestAuthRejectsTokensMissingClaims(t *testing.T) {
	middleware := AuthMiddleware("test-secret", zap.NewNop())
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d for token without admin claims, want 401", w.Code)
	}
}
