package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/domain"
	"github.com/ark9164-create/torscrape/internal/storage"
)

const dateLayout = "2006-01-02"

func (s *Server) handleScrapeRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Dates) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "Dates list cannot be empty")
		return
	}

	for _, d := range req.Dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid date in list: "+d)
			return
		}
		s.scraper.Submit(domain.ScrapeTask{Date: d, Force: req.Force})
	}

	s.respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Dates accepted for scraping"})
}

func (s *Server) handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		s.respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	status, err := s.store.GetRunStatus(r.Context(), date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "No run recorded for date")
			return
		}
		s.logger.Error("failed to get run status", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) handleSlotsRequest(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		s.respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := s.store.GetSlots(r.Context(), date)
	if err != nil {
		s.logger.Error("failed to get slots", zap.String("date", date), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve slots")
		return
	}
	if slots == nil {
		slots = []domain.PriceSlot{}
	}

	s.respondWithJSON(w, http.StatusOK, slots)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if err := s.store.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	if err := s.cache.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	if healthStatus["postgres"] != "healthy" || healthStatus["redis"] != "healthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}

	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
