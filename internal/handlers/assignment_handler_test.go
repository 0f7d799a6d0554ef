package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"workforce/internal/middleware"
	"workforce/internal/models"
	"workforce/internal/services"
)

type memAssignmentRepo struct {
	stubAssignmentRepo
	created []*models.Assignment
}

func (r *memAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	r.created = append(r.created, a)
	r.byID[a.ID] = a
	return nil
}

func (r *memAssignmentRepo) ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func assignmentTestSetup() (*AssignmentHandler, *memAssignmentRepo) {
	assignments := &memAssignmentRepo{stubAssignmentRepo: stubAssignmentRepo{byID: map[string]*models.Assignment{}}}
	periods := newStubWorkPeriodRepo()
	periods.byID["p1"] = &models.WorkPeriod{
		ID:        "p1",
		Name:      "March maintenance",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	schedule := services.NewScheduleService(&stubHoursRepo{entries: map[string]*models.WorkHoursEntry{}})
	return NewAssignmentHandler(assignments, periods, schedule), assignments
}

func assignmentRequest(method, target string, params map[string]string, userID, role string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.CtxUserID, userID)
	ctx = context.WithValue(ctx, middleware.CtxRole, role)
	return req.WithContext(ctx)
}

const (
	testUserUUID   = "9f4b6a1e-2c3d-4e5f-8a9b-0c1d2e3f4a5b"
	testPeriodUUID = "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d"
)

func TestCreateAssignmentInsideWindow(t *testing.T) {
	h, repo := assignmentTestSetup()
	// The handler looks the period up by the id in the payload.
	periods := h.periods.(*stubWorkPeriodRepo)
	periods.byID[testPeriodUUID] = periods.byID["p1"]

	b, _ := json.Marshal(map[string]any{
		"user_id":        testUserUUID,
		"work_period_id": testPeriodUUID,
		"from_date":      "2024-03-05T00:00:00Z",
		"to_date":        "2024-03-10T00:00:00Z",
		"profession":     "electrician",
	})
	req := assignmentRequest(http.MethodPost, "/api/v1/assignments", nil, "admin-1", "admin", b)
	w := httptest.NewRecorder()
	h.CreateAssignment(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created assignment got %d", len(repo.created))
	}
}

func TestCreateAssignmentOutsideWindowIsRejected(t *testing.T) {
	h, repo := assignmentTestSetup()
	periods := h.periods.(*stubWorkPeriodRepo)
	periods.byID[testPeriodUUID] = periods.byID["p1"]

	b, _ := json.Marshal(map[string]any{
		"user_id":        testUserUUID,
		"work_period_id": testPeriodUUID,
		"from_date":      "2024-02-25T00:00:00Z",
		"to_date":        "2024-03-10T00:00:00Z",
		"profession":     "electrician",
	})
	req := assignmentRequest(http.MethodPost, "/api/v1/assignments", nil, "admin-1", "admin", b)
	w := httptest.NewRecorder()
	h.CreateAssignment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no assignment to be created")
	}
}

func TestCreateAssignmentUnknownPeriod(t *testing.T) {
	h, _ := assignmentTestSetup()

	b, _ := json.Marshal(map[string]any{
		"user_id":        testUserUUID,
		"work_period_id": "2a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6e",
		"from_date":      "2024-03-05T00:00:00Z",
		"to_date":        "2024-03-10T00:00:00Z",
		"profession":     "electrician",
	})
	req := assignmentRequest(http.MethodPost, "/api/v1/assignments", nil, "admin-1", "admin", b)
	w := httptest.NewRecorder()
	h.CreateAssignment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetAssignmentOwnerOnly(t *testing.T) {
	h, repo := assignmentTestSetup()
	repo.byID["a1"] = &models.Assignment{
		ID: "a1", UserID: "u1", WorkPeriodID: "p1",
		FromDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	req := assignmentRequest(http.MethodGet, "/api/v1/assignments/a1", map[string]string{"id": "a1"}, "u1", "user", nil)
	w := httptest.NewRecorder()
	h.GetAssignment(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("owner: expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	req = assignmentRequest(http.MethodGet, "/api/v1/assignments/a1", map[string]string{"id": "a1"}, "u2", "user", nil)
	w = httptest.NewRecorder()
	h.GetAssignment(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403 got %d (%s)", w.Code, w.Body.String())
	}

	req = assignmentRequest(http.MethodGet, "/api/v1/assignments/a1", map[string]string{"id": "a1"}, "admin-1", "admin", nil)
	w = httptest.NewRecorder()
	h.GetAssignment(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListAssignmentsByUserForbiddenForOthers(t *testing.T) {
	h, _ := assignmentTestSetup()

	req := assignmentRequest(http.MethodGet, "/api/v1/assignments/user/u1", map[string]string{"userID": "u1"}, "u2", "user", nil)
	w := httptest.NewRecorder()
	h.ListAssignmentsByUser(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateAssignmentRechecksWindow(t *testing.T) {
	h, repo := assignmentTestSetup()
	repo.byID["a1"] = &models.Assignment{
		ID: "a1", UserID: "u1", WorkPeriodID: "p1",
		FromDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	b, _ := json.Marshal(map[string]any{"to_date": "2024-04-05T00:00:00Z"})
	req := assignmentRequest(http.MethodPut, "/api/v1/assignments/a1", map[string]string{"id": "a1"}, "admin-1", "admin", b)
	w := httptest.NewRecorder()
	h.UpdateAssignment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}
