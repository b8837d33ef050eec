package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// Identity headers are filled in by the authentication layer in front of
// this service; this handler package trusts them.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

var errMissingUserID = errors.New("user id header is required")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Info().Msgf("Failed to encode response: %v", err)
	}
}

func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return uuid.Nil, errMissingUserID
	}

	return uuid.FromString(raw)
}

func writeUserIDError(w http.ResponseWriter, err error) {
	if errors.Is(err, errMissingUserID) {
		http.Error(w, errMissingUserID.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, "invalid user id", http.StatusBadRequest)
}

// viewAllScope derives the order-listing capability from the caller's
// role. Admins and managers see every order, everyone else only their own.
func viewAllScope(r *http.Request) bool {
	switch r.Header.Get(headerUserRole) {
	case "admin", "manager":
		return true
	}

	return false
}
