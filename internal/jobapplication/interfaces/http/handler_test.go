package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/recruiting/internal/jobapplication/application"
	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
)

type memoryRepo struct {
	apps map[string]*domain.JobApplication
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{apps: make(map[string]*domain.JobApplication)}
}

func (r *memoryRepo) Create(ctx context.Context, app *domain.JobApplication, entry *domain.StatusHistoryEntry) error {
	stored := *app
	stored.History = []domain.StatusHistoryEntry{*entry}
	r.apps[app.ApplicationID] = &stored
	return nil
}

func (r *memoryRepo) UpdateStatusWithHistory(ctx context.Context, applicationID string, status domain.Status, notes, actor string) (*domain.JobApplication, error) {
	app, ok := r.apps[applicationID]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	app.Status = status
	app.AdminNotes = notes
	entry := domain.StatusHistoryEntry{ApplicationID: applicationID, Status: status, Notes: notes, ChangedBy: actor}
	app.History = append([]domain.StatusHistoryEntry{entry}, app.History...)
	result := *app
	return &result, nil
}

func (r *memoryRepo) GetWithHistory(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	app, ok := r.apps[applicationID]
	if !ok {
		return nil, nil
	}
	result := *app
	return &result, nil
}

func (r *memoryRepo) List(ctx context.Context, status *domain.Status, limit, offset int) ([]*domain.JobApplication, int64, error) {
	var apps []*domain.JobApplication
	for _, app := range r.apps {
		if status != nil && app.Status != *status {
			continue
		}
		result := *app
		apps = append(apps, &result)
	}
	return apps, int64(len(apps)), nil
}

func newTestRouter(repo *memoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewApplicationService(repo, nil, nil, nil, nil, "", 0)
	engine := gin.New()
	NewHandler(service, nil).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec, payload
}

func submitApplication(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications",
		`{"full_name":"Jane Doe","email":"jane@example.com","locale":"en"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit returned %d: %s", rec.Code, rec.Body.String())
	}
	data := payload["data"].(map[string]any)
	return data["application_id"].(string)
}

func TestSubmitApplicationEndpoint(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications",
		`{"full_name":"Jane Doe","email":"jane@example.com"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if payload["success"] != true {
		t.Errorf("success = %v, want true", payload["success"])
	}
	data := payload["data"].(map[string]any)
	if data["status"] != "SUBMITTED" {
		t.Errorf("status = %v, want SUBMITTED", data["status"])
	}
}

func TestSubmitApplicationValidationResponse(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications",
		`{"full_name":"","email":"nope"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["success"] != false {
		t.Errorf("success = %v, want false", payload["success"])
	}
	if payload["message"] != "Validation failed" {
		t.Errorf("message = %v, want Validation failed", payload["message"])
	}
	fieldErrors, ok := payload["errors"].([]any)
	if !ok || len(fieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %v", payload["errors"])
	}
}

func TestTransitionStatusEndpoint(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	id := submitApplication(t, router)

	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications/"+id+"/status",
		`{"status":"INTERVIEW_SCHEDULED","notes":"Call at 3pm","changed_by":"hr_jane"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data := payload["data"].(map[string]any)
	if data["status"] != "INTERVIEW_SCHEDULED" {
		t.Errorf("status = %v, want INTERVIEW_SCHEDULED", data["status"])
	}
	history := data["history"].([]any)
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	latest := history[0].(map[string]any)
	if latest["changed_by"] != "hr_jane" || latest["notes"] != "Call at 3pm" {
		t.Errorf("unexpected latest entry: %v", latest)
	}
}

func TestTransitionStatusInvalidStatusResponse(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	id := submitApplication(t, router)

	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications/"+id+"/status",
		`{"status":"APPROVED"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	fieldErrors, ok := payload["errors"].([]any)
	if !ok || len(fieldErrors) == 0 {
		t.Fatalf("expected field errors, got %v", payload["errors"])
	}
	first := fieldErrors[0].(map[string]any)
	if first["field"] != "status" {
		t.Errorf("field = %v, want status", first["field"])
	}
}

func TestTransitionStatusNotFoundResponse(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := doRequest(t, router, http.MethodPost,
		"/api/v1/applications/6d1f6e0a-3c8f-4c5e-9f27-0a4b8a2f9e11/status",
		`{"status":"HIRED"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if payload["message"] != "Application not found" {
		t.Errorf("message = %v", payload["message"])
	}
}

func TestGetApplicationEndpoint(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	id := submitApplication(t, router)

	rec, payload := doRequest(t, router, http.MethodGet, "/api/v1/applications/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := payload["data"].(map[string]any)
	if data["application_id"] != id {
		t.Errorf("application_id = %v, want %s", data["application_id"], id)
	}
}

func TestGetApplicationNotFoundResponse(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := doRequest(t, router, http.MethodGet,
		"/api/v1/applications/6d1f6e0a-3c8f-4c5e-9f27-0a4b8a2f9e11", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if payload["success"] != false {
		t.Errorf("success = %v, want false", payload["success"])
	}
}

func TestListApplicationsEndpoint(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	submitApplication(t, router)
	submitApplication(t, router)

	rec, payload := doRequest(t, router, http.MethodGet, "/api/v1/applications?status=SUBMITTED", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := payload["data"].(map[string]any)
	if data["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", data["total"])
	}
}

func TestInvalidRequestBody(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec, payload := doRequest(t, router, http.MethodPost, "/api/v1/applications", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["success"] != false {
		t.Errorf("success = %v, want false", payload["success"])
	}
}
