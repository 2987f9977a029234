package handlers

import (
	"log"
	"movesmart-route-service/internal/api/dto"
	"movesmart-route-service/internal/platform/obs"
	"movesmart-route-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

// TripHandler accepts completed trips reported by route clients.
type TripHandler struct {
	Repo ports.TripRepository
	Now  func() time.Time
}

func (h *TripHandler) Log(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LogTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, r, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Timestamp.IsZero() {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		req.Timestamp = now().UTC()
	}

	if err := h.Repo.InsertTrip(r.Context(), req.ToDomain()); err != nil {
		log.Printf("req_id=%s log trip failed: user_id=%q err=%v", obs.RequestID(r.Context()), req.UserID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "logged"})
}
