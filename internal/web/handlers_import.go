package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/catalog/internal/web/templates"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 1 << 20

// handleImport reconciles an uploaded CSV or XLSX file with the catalog.
// The file is streamed to the reader; only the multipart spill is buffered.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, errors.New("request body too large"), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, errors.New("no file provided: "+err.Error()), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	report, err := s.service.ImportFile(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.ImportReport(header.Filename, report).Render(r.Context(), w)
		return
	}
	writeJSON(w, report)
}
