package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"climata/internal/pipeline"
)

const dateLayout = "2006-01-02"

func (s *Server) handleClimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	postcode := q.Get("postcode")
	if postcode == "" {
		writeError(w, http.StatusBadRequest, "postcode is required")
		return
	}
	start, err := time.Parse(dateLayout, q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("start: want YYYY-MM-DD, got %q", q.Get("start")))
		return
	}
	end, err := time.Parse(dateLayout, q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("end: want YYYY-MM-DD, got %q", q.Get("end")))
		return
	}

	bundle, err := s.runner.Analyze(r.Context(), pipeline.Request{
		Postcode:       postcode,
		Start:          start,
		End:            end,
		IncludeCurrent: q.Get("current") == "true",
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, bundle)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	postcode := r.URL.Query().Get("postcode")
	if postcode == "" {
		writeError(w, http.StatusBadRequest, "postcode is required")
		return
	}

	cur, loc, err := s.runner.Current(r.Context(), postcode)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"location": loc,
		"current":  cur,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
