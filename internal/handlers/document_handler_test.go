package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workforce/internal/config"
	"workforce/internal/models"
	"workforce/internal/services"
)

type stubDocumentRepo struct {
	byID map[string]*models.Document
}

func (r *stubDocumentRepo) Create(ctx context.Context, doc *models.Document) error { return nil }

func (r *stubDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if d, ok := r.byID[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (r *stubDocumentRepo) ListByAssignment(ctx context.Context, assignmentID string, limit, offset int) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range r.byID {
		if d.AssignmentID == assignmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDocumentRepo) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	docs, _ := r.ListByAssignment(ctx, assignmentID, 0, 0)
	return len(docs), nil
}

func (r *stubDocumentRepo) Update(ctx context.Context, id string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Kind != nil {
		d.Kind = *req.Kind
	}
	cp := *d
	return &cp, nil
}

func (r *stubDocumentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

const testAssignmentUUID = "3f4b6a1e-2c3d-4e5f-8a9b-0c1d2e3f4a5b"

func documentTestSetup() (*DocumentHandler, *stubDocumentRepo) {
	docs := &stubDocumentRepo{byID: map[string]*models.Document{}}
	assignments := &stubAssignmentRepo{byID: map[string]*models.Assignment{
		testAssignmentUUID: {
			ID:           testAssignmentUUID,
			UserID:       "u1",
			WorkPeriodID: "p1",
			FromDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ToDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}}
	schedule := services.NewScheduleService(&stubHoursRepo{entries: map[string]*models.WorkHoursEntry{}})
	return NewDocumentHandler(docs, assignments, schedule, &config.S3Config{}), docs
}

func TestUploadDocumentsWithoutMultipartIsRejected(t *testing.T) {
	h, _ := documentTestSetup()

	req := hoursRequest(http.MethodPost, "/api/v1/documents/upload", "", "u1", "user", nil)
	w := httptest.NewRecorder()
	h.UploadDocuments(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json got %q", ct)
	}
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("files", "invoice.pdf")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("%PDF-1.4")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadDocumentsRejectsBadKind(t *testing.T) {
	h, _ := documentTestSetup()

	body, contentType := multipartBody(t, map[string]string{
		"assignment_id": testAssignmentUUID,
		"kind":          "receipt",
	}, true)

	req := hoursRequest(http.MethodPost, "/api/v1/documents/upload", "", "u1", "user", body.Bytes())
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadDocuments(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUploadDocumentsForeignAssignmentIsForbidden(t *testing.T) {
	h, _ := documentTestSetup()

	body, contentType := multipartBody(t, map[string]string{
		"assignment_id": testAssignmentUUID,
		"kind":          "invoice",
	}, true)

	req := hoursRequest(http.MethodPost, "/api/v1/documents/upload", "", "u2", "user", body.Bytes())
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadDocuments(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListDocumentsByAssignmentAuthorized(t *testing.T) {
	h, docs := documentTestSetup()
	docs.byID["d1"] = &models.Document{
		ID: "d1", Name: "invoice.pdf", Kind: models.DocumentKindInvoice,
		AssignmentID: testAssignmentUUID, UploadedBy: "u1",
	}

	req := assignmentRequest(http.MethodGet, "/api/v1/documents/assignment/"+testAssignmentUUID,
		map[string]string{"assignmentID": testAssignmentUUID}, "u1", "user", nil)
	w := httptest.NewRecorder()
	h.ListDocumentsByAssignment(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) {
		t.Fatalf("expected total=1 got %v", resp)
	}

	// A worker who does not own the assignment is refused.
	req = assignmentRequest(http.MethodGet, "/api/v1/documents/assignment/"+testAssignmentUUID,
		map[string]string{"assignmentID": testAssignmentUUID}, "u2", "user", nil)
	w = httptest.NewRecorder()
	h.ListDocumentsByAssignment(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateDocumentReclassifies(t *testing.T) {
	h, docs := documentTestSetup()
	docs.byID["d1"] = &models.Document{
		ID: "d1", Name: "doc.pdf", Kind: models.DocumentKindInvoice,
		AssignmentID: testAssignmentUUID, UploadedBy: "u1",
	}

	b, _ := json.Marshal(map[string]any{"kind": "contract"})
	req := hoursRequest(http.MethodPut, "/api/v1/documents/d1", "d1", "u1", "user", b)
	w := httptest.NewRecorder()
	h.UpdateDocument(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if docs.byID["d1"].Kind != models.DocumentKindContract {
		t.Fatalf("expected kind to change got %q", docs.byID["d1"].Kind)
	}
}

func TestUpdateDocumentRejectsBadKind(t *testing.T) {
	h, docs := documentTestSetup()
	docs.byID["d1"] = &models.Document{
		ID: "d1", Name: "doc.pdf", Kind: models.DocumentKindInvoice,
		AssignmentID: testAssignmentUUID, UploadedBy: "u1",
	}

	b, _ := json.Marshal(map[string]any{"kind": "receipt"})
	req := hoursRequest(http.MethodPut, "/api/v1/documents/d1", "d1", "u1", "user", b)
	w := httptest.NewRecorder()
	h.UpdateDocument(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}
