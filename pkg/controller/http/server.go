package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/usecase"
	"github.com/grc-lab/attest/pkg/utils/errutil"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// Server exposes the compliance API over REST.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)
			r.Get("/{id}", s.getRisk)
			r.Put("/{id}", s.updateRisk)
			r.Delete("/{id}", s.deleteRisk)
			r.Get("/{id}/level", s.getRiskLevel)
		})

		r.Route("/controls", func(r chi.Router) {
			r.Get("/", s.listControls)
			r.Post("/", s.createControl)
			r.Get("/{id}", s.getControl)
			r.Put("/{id}", s.updateControl)
			r.Delete("/{id}", s.deleteControl)
			r.Get("/{id}/executions", s.listControlExecutions)
			r.Get("/{id}/deficiencies", s.listControlDeficiencies)
			r.Get("/{id}/evidence", s.listControlEvidence)
		})

		r.Route("/executions", func(r chi.Router) {
			r.Get("/", s.listExecutions)
			r.Post("/", s.createExecution)
			r.Get("/{id}", s.getExecution)
			r.Put("/{id}", s.updateExecution)
			r.Delete("/{id}", s.deleteExecution)
			r.Post("/{id}/submit", s.submitExecution)
			r.Post("/{id}/cancel", s.cancelExecution)
		})

		r.Route("/deficiencies", func(r chi.Router) {
			r.Get("/", s.listDeficiencies)
			r.Post("/", s.createDeficiency)
			r.Get("/{id}", s.getDeficiency)
			r.Put("/{id}", s.updateDeficiency)
			r.Delete("/{id}", s.deleteDeficiency)
			r.Post("/{id}/close", s.closeDeficiency)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.listAlerts)
			r.Get("/{id}", s.getAlert)
			r.Put("/{id}/status", s.updateAlertStatus)
			r.Delete("/{id}", s.deleteAlert)
		})

		r.Route("/capture-rules", func(r chi.Router) {
			r.Get("/", s.listCaptureRules)
			r.Post("/", s.createCaptureRule)
			r.Get("/{id}", s.getCaptureRule)
			r.Put("/{id}", s.updateCaptureRule)
			r.Delete("/{id}", s.deleteCaptureRule)
		})

		r.Route("/evidence", func(r chi.Router) {
			r.Get("/", s.listEvidence)
			r.Get("/{id}", s.getEvidence)
			r.Get("/{id}/verify", s.verifyEvidence)
			r.Delete("/{id}", s.deleteEvidence)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.getSettings)
			r.Put("/", s.putSettings)
		})

		r.Route("/regulatory", func(r chi.Router) {
			r.Route("/updates", func(r chi.Router) {
				r.Get("/", s.listRegulatoryUpdates)
				r.Post("/", s.createRegulatoryUpdate)
				r.Get("/{id}", s.getRegulatoryUpdate)
			})
			r.Route("/changes", func(r chi.Router) {
				r.Get("/", s.listRegulatoryChanges)
				r.Post("/", s.createRegulatoryChange)
				r.Get("/{id}", s.getRegulatoryChange)
				r.Post("/{id}/assess", s.assessRegulatoryChange)
			})
			r.Route("/assessments", func(r chi.Router) {
				r.Get("/", s.listAssessments)
				r.Get("/{id}", s.getAssessment)
				r.Post("/{id}/complete", s.completeAssessment)
				r.Post("/{id}/dismiss", s.dismissAssessment)
			})
		})

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/query", s.assistantQuery)
			r.Get("/suggestions/testing", s.suggestTestingPriority)
			r.Get("/suggestions/risks/{id}/controls", s.suggestControlsForRisk)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/heatmap", s.getHeatMap)
			r.Get("/control-status", s.getControlStatus)
		})

		r.Post("/scans/overdue", s.scanOverdue)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleError maps use case failures onto status codes. Missing
// records are 404, lifecycle conflicts 409, anything else from
// validation 400.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrExecutionSubmitted),
		errors.Is(err, usecase.ErrExecutionNotSubmitted),
		errors.Is(err, usecase.ErrExecutionCancelled):
		errutil.HandleHTTP(ctx, w, err, http.StatusConflict)
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Default().Error("failed to encode response", "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
