package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jlcut/internal/cuts"
	"jlcut/internal/history"
	"jlcut/internal/logging"
	"jlcut/internal/pipeline"
)

// Response headers describing the outcome of a processing request. Set on
// every response once the pipeline has run, including failures.
const (
	HeaderCutsApplied     = "X-Cuts-Applied"
	HeaderTotalBoundaries = "X-Total-Boundaries"
	HeaderCutType         = "X-Cut-Type"
	HeaderOffset          = "X-Offset"
)

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()
	defer func() {
		s.metrics.requestDuration.WithLabelValues("process").Observe(time.Since(started).Seconds())
	}()

	if !s.limiter.Allow(clientKey(r)) {
		s.writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limit exceeded, %d requests per hour allowed", s.cfg.Limits.RequestsPerHour))
		return
	}

	req, cleanup, err := s.parseProcessRequest(w, r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, status, err.Error())
		return
	}

	report, err := s.processor.Run(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrValidation), errors.Is(err, pipeline.ErrArchive):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("processing failed",
				logging.String("source", req.SourceName),
				logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "processing failed")
		}
		return
	}

	s.metrics.runsTotal.WithLabelValues(report.Status).Inc()
	s.metrics.cutsApplied.Add(float64(report.Applied))
	s.metrics.cutsFailed.Add(float64(report.Failed))

	w.Header().Set(HeaderCutsApplied, strconv.Itoa(report.Applied))
	w.Header().Set(HeaderTotalBoundaries, strconv.Itoa(report.Boundaries))
	w.Header().Set(HeaderCutType, string(report.Kind))
	w.Header().Set(HeaderOffset, strconv.Itoa(report.Offset))

	switch report.Status {
	case history.StatusDryRun:
		s.writeJSON(w, http.StatusOK, report)
	case history.StatusNoBoundaries:
		s.writeError(w, http.StatusBadRequest, "no eligible cut boundaries found in any timeline")
	case history.StatusNoCuts:
		s.writeError(w, http.StatusBadRequest, "no cuts could be applied at the detected boundaries")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", report.OutputName))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(report.Output); err != nil {
			s.logger.Warn("response write failed", logging.Error(err))
		}
	}
}

// parseProcessRequest reads the multipart form and stages the uploaded
// archive. The returned cleanup removes the staged file and must run even
// when parsing fails partway.
func (s *Server) parseProcessRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, func(), error) {
	var req pipeline.Request

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Limits.MaxUploadBytes); err != nil {
		return req, nil, fmt.Errorf("upload rejected: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return req, nil, errors.New("a .drp file upload named \"file\" is required")
	}
	defer file.Close()
	if !strings.EqualFold(filepath.Ext(header.Filename), ".drp") {
		return req, nil, fmt.Errorf("unsupported file %q, expected a .drp archive", header.Filename)
	}

	staged, err := os.CreateTemp(s.cfg.Paths.StagingDir, "upload-*.drp")
	if err != nil {
		return req, nil, fmt.Errorf("stage upload: %w", err)
	}
	cleanup := func() { os.Remove(staged.Name()) }
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		return req, cleanup, fmt.Errorf("stage upload: %w", err)
	}
	if err := staged.Close(); err != nil {
		return req, cleanup, fmt.Errorf("stage upload: %w", err)
	}

	kindToken := r.FormValue("cut_type")
	if strings.TrimSpace(kindToken) == "" {
		kindToken = "J"
	}
	kind, err := cuts.ParseKind(kindToken)
	if err != nil {
		return req, cleanup, err
	}

	offset := 0
	if raw := strings.TrimSpace(r.FormValue("offset")); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil {
			return req, cleanup, fmt.Errorf("offset must be an integer, got %q", raw)
		}
	}
	maxGap := 0
	if raw := strings.TrimSpace(r.FormValue("max_gap")); raw != "" {
		maxGap, err = strconv.Atoi(raw)
		if err != nil {
			return req, cleanup, fmt.Errorf("max_gap must be an integer, got %q", raw)
		}
	}

	req = pipeline.Request{
		ArchivePath: staged.Name(),
		SourceName:  filepath.Base(header.Filename),
		Kind:        kind,
		Offset:      offset,
		MaxGap:      maxGap,
		DryRun:      parseBool(r.FormValue("dry_run")),
	}
	return req, cleanup, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
