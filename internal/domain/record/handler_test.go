package record

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthfolio/healthfolio/internal/platform/auth"
)

func setupHandler() (*echo.Echo, *mockRepo, uuid.UUID) {
	owner := uuid.New()
	repo := newMockRepo()
	h := NewHandler(NewService(repo))

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), auth.UserIDKey, owner.String())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, repo, owner
}

func TestHandlerCreateRecord(t *testing.T) {
	e, _, _ := setupHandler()

	body := `{"title":"Blood panel","category":"lab_report"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got HealthRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Blood panel" || got.ID == uuid.Nil {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestHandlerCreateRecord_InvalidCategory(t *testing.T) {
	e, _, _ := setupHandler()

	body := `{"title":"x","category":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerGetRecord_NotFound(t *testing.T) {
	e, _, _ := setupHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerGetRecord_ForeignRecordHidden(t *testing.T) {
	e, repo, _ := setupHandler()

	foreign := &HealthRecord{OwnerID: uuid.New(), Title: "not yours"}
	if err := repo.Create(context.Background(), foreign); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/"+foreign.ID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign record, got %d", rec.Code)
	}
}

func TestHandlerListRecords(t *testing.T) {
	e, repo, owner := setupHandler()

	if err := repo.Create(context.Background(), &HealthRecord{OwnerID: owner, Title: "one", Category: "other"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}

func TestHandlerDeleteRecord(t *testing.T) {
	e, repo, owner := setupHandler()

	r := &HealthRecord{OwnerID: owner, Title: "to delete", Category: "other"}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/records/"+r.ID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
