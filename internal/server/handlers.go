package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/storage"
	"github.com/raphi011/themestore/internal/theme"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello, World!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.store.Poisoned() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "poisoned")
		return
	}
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Entries()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeTheme(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Insert(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/theme/"+doc.Key())
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeTheme(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.PathValue("name"), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errBadBody marks request bodies that could not be read or decoded.
var errBadBody = errors.New("bad request body")

// decodeTheme reads a theme from the request body. The codec follows
// Content-Type: application/toml selects TOML, anything else JSON.
func decodeTheme(w http.ResponseWriter, r *http.Request) (*theme.Theme, error) {
	codec := storage.JSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == "application/toml" {
			codec = storage.TOML
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadBody, err)
	}
	var doc theme.Theme
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", errBadBody, codec.Name(), err)
	}
	return &doc, nil
}

// statusFor maps store and request errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	// A stored file that fails to decode wraps ErrInvalid too, but a
	// read of it is still a miss.
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrEntryDoesNotExist):
		return http.StatusNotFound
	case errors.Is(err, errBadBody), errors.Is(err, theme.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, cache.ErrEntryAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, cache.ErrWouldBlock):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Printf("%s %s: %v\n", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}
