package handlers

import (
	"context"
	"net/http"

	"reelgrid/models"
	"reelgrid/services/sync"
)

type profileService interface {
	Get(userID string) (*models.Profile, error)
	Save(ctx context.Context, userID string, profile models.Profile) (models.Profile, error)
}

var _ profileService = (*sync.ProfileRepository)(nil)

// ProfileHandler exposes the profile repository over HTTP.
type ProfileHandler struct {
	Service profileService
}

func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{Service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	profile, err := h.Service.Get(userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if profile == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	var profile models.Profile
	if !decodeJSON(w, r, &profile) {
		return
	}

	saved, err := h.Service.Save(r.Context(), userID, profile)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
