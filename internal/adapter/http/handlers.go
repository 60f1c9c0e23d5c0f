package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
	maxHorizon       = 100
)

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req domain.QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	a, err := s.assess(r, req)
	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordAssessmentError(err)
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
			return
		}
		s.logger.Error("assessment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "assessment failed")
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordAssessment(a, time.Since(start))
	}

	if s.deps.Store != nil {
		if err := s.deps.Store.Save(r.Context(), a); err != nil {
			s.logger.Error("store assessment", "id", a.ID, "error", err)
		}
	}

	respond(w, r, http.StatusOK, a)
}

func (s *Server) assess(r *http.Request, req domain.QueryRequest) (domain.Assessment, error) {
	q, err := req.ToQuery()
	if err != nil {
		return domain.Assessment{}, err
	}
	return s.deps.Assessor.Assess(r.Context(), q)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusNotImplemented, "assessment history is disabled")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer in [1, 200]")
			return
		}
		limit = n
	}

	list, err := s.deps.Store.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("list assessments", "error", err)
		writeError(w, http.StatusInternalServerError, "list assessments failed")
		return
	}
	if list == nil {
		list = []domain.Assessment{}
	}
	respond(w, r, http.StatusOK, list)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusNotImplemented, "assessment history is disabled")
		return
	}

	id := mux.Vars(r)["id"]
	a, err := s.deps.Store.Get(r.Context(), id)
	if errors.Is(err, domain.ErrAssessmentNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		s.logger.Error("get assessment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "get assessment failed")
		return
	}
	respond(w, r, http.StatusOK, a)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	horizon := s.deps.DefaultHorizon
	if v := r.URL.Query().Get("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxHorizon {
			writeError(w, http.StatusBadRequest, "horizon must be an integer in [0, 100]")
			return
		}
		horizon = n
	}

	points, err := domain.Project(s.deps.Waste, horizon)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, r, http.StatusOK, points)
}

func (s *Server) handleProduction(w http.ResponseWriter, r *http.Request) {
	points := s.deps.Production
	if points == nil {
		points = []domain.ProductionPoint{}
	}
	respond(w, r, http.StatusOK, points)
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.deps.Assessor.Baseline())
}

func (s *Server) handleWasteForecast(w http.ResponseWriter, r *http.Request) {
	if s.deps.WasteModel == nil {
		writeError(w, http.StatusNotImplemented, "waste regression model is not loaded")
		return
	}

	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "year must be an integer", Field: "year"})
		return
	}
	avg := s.deps.WasteModel.AvgDailyWaste()
	if v := q.Get("avg_daily_waste"); v != "" {
		if avg, err = strconv.ParseFloat(v, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "avg_daily_waste must be a number", Field: "avg_daily_waste"})
			return
		}
	}

	f, err := s.deps.WasteModel.Forecast(year, avg)
	if err != nil {
		s.writeForecastError(w, err)
		return
	}
	respond(w, r, http.StatusOK, f)
}

func (s *Server) handleTemperatureForecast(w http.ResponseWriter, r *http.Request) {
	if s.deps.TemperatureModel == nil {
		writeError(w, http.StatusNotImplemented, "temperature regression model is not loaded")
		return
	}

	date, err := domain.ParseQueryDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeForecastError(w, err)
		return
	}
	f, err := s.deps.TemperatureModel.Forecast(date)
	if err != nil {
		s.writeForecastError(w, err)
		return
	}
	respond(w, r, http.StatusOK, f)
}

func (s *Server) writeForecastError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
		return
	}
	s.logger.Error("forecast failed", "error", err)
	writeError(w, http.StatusInternalServerError, "forecast failed")
}
