package api

import (
	"net/http"

	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
)

// handleServeUpload serves a stored image by its public path. Uploaded
// filenames are random UUIDs, so the files themselves are immutable and
// safe to cache.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	filePath, err := s.images.FilePath(r.URL.Path)
	if err != nil {
		s.writeError(w, domainerrors.NotFound("Image not found"))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, filePath)
}
