package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"reelgrid/handlers"
	"reelgrid/models"
	"reelgrid/services/sync"
)

type fakeProfileService struct {
	profile *models.Profile
	saveErr error
}

func (f *fakeProfileService) Get(string) (*models.Profile, error) { return f.profile, nil }

func (f *fakeProfileService) Save(_ context.Context, _ string, profile models.Profile) (models.Profile, error) {
	if f.saveErr != nil {
		return models.Profile{}, f.saveErr
	}
	f.profile = &profile
	return profile, nil
}

func TestProfileSaveAndGetRoundtrip(t *testing.T) {
	svc := &fakeProfileService{}
	h := handlers.NewProfileHandler(svc)

	body := `{"name":"Living Room","avatarColor":"#2d6cdf","language":"en"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/users/default/profile", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	h.Save(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/users/default/profile", nil)
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	h.Get(rec, req)

	var got models.Profile
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Name != "Living Room" || got.Language != "en" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestProfileGetNotFound(t *testing.T) {
	h := handlers.NewProfileHandler(&fakeProfileService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/default/profile", nil)
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing profile, got %d", rec.Code)
	}
}

func TestProfileSaveValidationMapsTo400(t *testing.T) {
	h := handlers.NewProfileHandler(&fakeProfileService{saveErr: sync.ErrNameRequired})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/users/default/profile", strings.NewReader(`{"name":""}`))
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	h.Save(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation error, got %d", rec.Code)
	}
}
