package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrihub/agrihub/internal/app/system/auth"
)

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	}))

	req := httptest.NewRequest("GET", "/complaints", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected JSON error body, got Content-Type %q", ct)
	}
	if strings.Contains(rec.Body.String(), "protected content") {
		t.Error("protected content leaked to anonymous caller")
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	called := false
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/complaints", nil), "farmer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_NoUser_Returns401(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/admin/users", nil), "farmer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	called := false
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/admin/users", nil), "admin")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	handler := auth.RequireRole("finance", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role     string
		expected int
	}{
		{"admin", http.StatusOK},
		{"finance", http.StatusOK},
		{"farmer", http.StatusForbidden},
		{"donor", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := withTestUser(httptest.NewRequest("GET", "/funds", nil), tc.role)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("role %q: expected status %d, got %d", tc.role, tc.expected, rec.Code)
			}
		})
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := withTestUser(httptest.NewRequest("GET", "/admin/users", nil), "ADMIN")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for uppercase role, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := withTestUser(httptest.NewRequest("GET", "/", nil), "agronomist")

	user, ok := auth.CurrentUser(req)

	if !ok {
		t.Error("expected ok to be true when user in context")
	}
	if user == nil {
		t.Fatal("expected user to not be nil")
	}
	if user.Role != "agronomist" {
		t.Errorf("expected role 'agronomist', got %q", user.Role)
	}
}

// withTestUser injects a SessionUser into the request context, simulating
// what LoadSessionUser does for a signed-in caller.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:     "507f1f77bcf86cd799439011",
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   role,
		Region: "Central",
	}
	return auth.WithTestUser(r, user)
}
