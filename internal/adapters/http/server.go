package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dossier/internal/domain"
	"dossier/internal/ports"
	"dossier/internal/services/evaluation"
	"dossier/internal/services/ingest"
)

// Server exposes the thin JSON surface over the ingest and evaluation
// services.
type Server struct {
	ingest     *ingest.Service
	evaluation *evaluation.Service
	log        *zap.Logger
}

func New(ingestSvc *ingest.Service, evalSvc *evaluation.Service, log *zap.Logger) *Server {
	return &Server{ingest: ingestSvc, evaluation: evalSvc, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/dpr/upload", s.upload)
		r.Get("/dpr/list", s.list)
		r.Get("/dpr/status/{jobToken}", s.status)
		r.Delete("/dpr/{jobToken}", s.delete)
		r.Post("/evaluation/scrutinize/{docID}", s.scrutinize)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Input", "missing file field")
		return
	}
	defer file.Close()

	token, err := s.ingest.Submit(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if errors.Is(err, ingest.ErrUnsupportedType) {
		writeError(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	if err != nil {
		s.log.Error("upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Processing Failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"jobId":   token,
		"status":  "SUBMITTED",
		"message": "File uploaded successfully. Processing started.",
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	records, err := s.ingest.List(r.Context())
	if err != nil {
		s.log.Error("list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch DPR list", err.Error())
		return
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		entry := map[string]any{
			"jobId":      rec.JobToken,
			"filename":   rec.Filename,
			"status":     string(rec.Status),
			"uploadDate": rec.CreatedAt,
		}
		if rec.Status == domain.StatusCompleted && rec.AnalysisResult != "" {
			entry["analysisResult"] = json.RawMessage(rec.AnalysisResult)
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ingest.Status(r.Context(), chi.URLParam(r, "jobToken"))
	if errors.Is(err, ports.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("status failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Status Lookup Failed", err.Error())
		return
	}

	resp := map[string]any{
		"jobId":           rec.JobToken,
		"status":          string(rec.Status),
		"lifecycleStatus": rec.Status.Lifecycle(),
		"filename":        rec.Filename,
	}
	switch rec.Status {
	case domain.StatusCompleted:
		resp["result"] = json.RawMessage(rec.AnalysisResult)
	case domain.StatusFailed:
		resp["error"] = rec.ValidationRemarks
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	err := s.ingest.Delete(r.Context(), chi.URLParam(r, "jobToken"))
	if errors.Is(err, ports.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Deletion Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully."})
}

func (s *Server) scrutinize(w http.ResponseWriter, r *http.Request) {
	result, err := s.evaluation.Scrutinize(r.Context(), chi.URLParam(r, "docID"))
	if errors.Is(err, ports.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("scrutinize failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Scrutiny Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "COMPLETED",
		"message":       "Scrutiny initiated successfully.",
		"ai_assessment": result,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errMsg, detail string) {
	writeJSON(w, code, map[string]string{"error": errMsg, "message": detail})
}
