package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/grahms/bbweaver"
)

type renderRequest struct {
	Text string `json:"text"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	log := s.cfg.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		log.Warn("failed to read render body", slog.Any("error", err))
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	sanitize, _ := strconv.ParseBool(r.URL.Query().Get("sanitize"))

	if isJSON(r) {
		var req renderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(renderResponse{HTML: s.render(req.Text, sanitize)})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.render(string(body), sanitize))
}

// render serves text from the cache when possible. Inputs above the
// cacheable size are rendered every time and never stored.
func (s *Server) render(text string, sanitize bool) string {
	start := time.Now()
	if len(text) > s.cfg.cacheMaxInputBytes {
		out := s.renderUncached(text, sanitize)
		s.cfg.metrics.observeRender(time.Since(start), false, s.cache.Len())
		return out
	}
	out, hit := s.cache.GetOrCompute(newCacheKey(text, sanitize), func() string {
		return s.renderUncached(text, sanitize)
	})
	s.cfg.metrics.observeRender(time.Since(start), hit, s.cache.Len())
	return out
}

func (s *Server) renderUncached(text string, sanitize bool) string {
	html := s.engine.Render(text)
	if sanitize {
		html = s.policy.Sanitize(html)
	}
	return html
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	data, err := bbweaver.MarshalTagSet(s.engine.AllowedTags())
	if err != nil {
		s.cfg.logger.Error("failed to marshal tag set", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "could not encode tag set")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
