package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleServeImage streams a stored image. This is a chi handler rather
// than a Huma operation because the response is raw bytes, not JSON.
// GET /api/v1/images/{bucket}/*
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	path := chi.URLParam(r, "*")

	if bucket == "" || path == "" {
		http.NotFound(w, r)
		return
	}

	hash, err := s.storage.Hash(bucket, path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	etag := `"` + hash + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	imgData, err := s.storage.Get(bucket, path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", imageContentType(path))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := w.Write(imgData); err != nil {
		s.logger.Debug("image write aborted", "bucket", bucket, "path", path, "error", err)
	}
}

// imageContentType maps a stored file extension to its MIME type.
func imageContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
