package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workforce/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authedHandler(got *struct {
	userID string
	role   models.Role
}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.userID = UserIDFromContext(r.Context())
		got.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	var got struct {
		userID string
		role   models.Role
	}
	h := JWTAuth(testSecret)(authedHandler(&got))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u1", "email": "a@b.com", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got.userID != "u1" || got.role != models.RoleAdmin {
		t.Fatalf("expected u1/admin got %s/%s", got.userID, got.role)
	}
}

func TestJWTAuthNormalizesUnknownRole(t *testing.T) {
	var got struct {
		userID string
		role   models.Role
	}
	h := JWTAuth(testSecret)(authedHandler(&got))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u1", "role": "superuser",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got.role != models.RoleUser {
		t.Fatalf("expected unknown role to collapse to user got %s", got.role)
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	h := JWTAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
			"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"no subject", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 got %d", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	var got struct {
		userID string
		role   models.Role
	}
	h := JWTAuth(testSecret)(RequireAdmin(authedHandler(&got)))

	userToken := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u1", "role": "user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role got %d", w.Code)
	}

	adminToken := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u2", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role got %d", w.Code)
	}
}
