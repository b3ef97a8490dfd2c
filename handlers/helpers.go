package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelgrid/models"
)

// userFrom extracts the userID route variable, defaulting to the legacy
// single-profile owner when the client sends none.
func userFrom(r *http.Request) string {
	userID := strings.TrimSpace(mux.Vars(r)["userID"])
	if userID == "" {
		userID = models.DefaultUserID
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
