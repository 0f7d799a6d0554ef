package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/go-chi/chi/v5"

	"workforce/internal/middleware"
	"workforce/internal/repository"
)

func userRequest(method, target, paramID, actorID, role string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	if paramID != "" {
		rctx.URLParams.Add("id", paramID)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.CtxUserID, actorID)
	ctx = context.WithValue(ctx, middleware.CtxRole, role)
	return req.WithContext(ctx)
}

func TestGetUserSelfAccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT ` + userCols + ` FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(userRow("u1", "a@b.com", "hash", true))

	h := NewUserHandler(repository.NewUserRepository(db))

	req := userRequest(http.MethodGet, "/api/v1/users/u1", "u1", "u1", "user", nil)
	w := httptest.NewRecorder()
	h.GetUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password_hash")) {
		t.Fatalf("password hash leaked in response: %s", w.Body.String())
	}
}

func TestGetUserForbiddenForOthers(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := NewUserHandler(repository.NewUserRepository(db))

	req := userRequest(http.MethodGet, "/api/v1/users/u1", "u1", "u2", "user", nil)
	w := httptest.NewRecorder()
	h.GetUser(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListUsersPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, email, name, user_name, phone_number, role, active, created_at\s+FROM users\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "user_name", "phone_number", "role", "active", "created_at"}).
			AddRow("u1", "a@b.com", "A", "a", "999", "user", true, time.Now().UTC()))

	h := NewUserHandler(repository.NewUserRepository(db))

	req := userRequest(http.MethodGet, "/api/v1/users?limit=10&offset=20", "", "admin-1", "admin", nil)
	w := httptest.NewRecorder()
	h.ListUsers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(42) {
		t.Fatalf("expected total=42 got %v", resp["total"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListUsersRejectsBadPagination(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := NewUserHandler(repository.NewUserRepository(db))

	req := userRequest(http.MethodGet, "/api/v1/users?limit=abc", "", "admin-1", "admin", nil)
	w := httptest.NewRecorder()
	h.ListUsers(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestSetUserActiveDeactivates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET active = \$1 WHERE id = \$2`).
		WithArgs(false, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := NewUserHandler(repository.NewUserRepository(db))

	b, _ := json.Marshal(map[string]any{"active": false})
	req := userRequest(http.MethodPut, "/api/v1/users/u1/active", "u1", "admin-1", "admin", b)
	w := httptest.NewRecorder()
	h.SetUserActive(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := NewUserHandler(repository.NewUserRepository(db))

	req := userRequest(http.MethodDelete, "/api/v1/users/missing", "missing", "admin-1", "admin", nil)
	w := httptest.NewRecorder()
	h.DeleteUser(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
}
