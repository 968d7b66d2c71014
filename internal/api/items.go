package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meur/biblioteca/internal/form"
	"github.com/meur/biblioteca/internal/models"
	"github.com/meur/biblioteca/internal/storage"
	"go.uber.org/zap"
)

const (
	msgSuccess         = "success"
	msgItemCreated     = "item created"
	msgItemUpdated     = "item updated"
	msgItemDeleted     = "item deleted"
	msgItemNotFound    = "item not found"
	msgRouteNotFound   = "route not found"
	msgInvalidBody     = "invalid request body"
	msgStorageError    = "storage error"
	msgInternalFailure = "internal middleware failure"

	maxBodyBytes = 1 << 20
)

var errTrailingData = errors.New("unexpected data after JSON body")

// handleListItems returns every item
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{Message: msgSuccess, Data: items})
}

// handleGetItem returns a single item by id
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	item, err := s.store.GetItem(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{Message: msgSuccess, Data: item})
}

// handleCreateItem inserts a new item
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeItem(w, r)
	if !ok {
		return
	}

	id, err := s.store.CreateItem(r.Context(), in)
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		Message: msgItemCreated,
		Data:    idData{ID: id},
		ID:      id,
	})
}

// handleUpdateItem overwrites an existing item
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	in, ok := s.decodeItem(w, r)
	if !ok {
		return
	}

	changes, err := s.store.UpdateItem(r.Context(), id, in)
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	if changes == 0 {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		Message: msgItemUpdated,
		Data:    idData{ID: id},
		Changes: changes,
	})
}

// handleDeleteItem removes an item
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	changes, err := s.store.DeleteItem(r.Context(), id)
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	if changes == 0 {
		respondError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	respondJSON(w, http.StatusOK, envelope{Message: msgItemDeleted, Changes: changes})
}

// itemID parses the {id} path parameter. Anything that is not a positive
// integer cannot match a row.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// decodeItem reads a JSON or form body, normalizes and validates it. On
// failure the 400 response has already been written.
func (s *Server) decodeItem(w http.ResponseWriter, r *http.Request) (models.ItemInput, bool) {
	in, err := readItem(w, r)
	if err != nil {
		var fieldErr *form.FieldError
		switch {
		case errors.As(err, &fieldErr), errors.Is(err, models.ErrInvalidTeam):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Debug("Invalid request body", zap.Error(err),
				zap.String("request_id", middleware.GetReqID(r.Context())))
			respondError(w, http.StatusBadRequest, msgInvalidBody)
		}
		return in, false
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func readItem(w http.ResponseWriter, r *http.Request) (models.ItemInput, error) {
	var in models.ItemInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return in, err
		}
		return form.Decode(r.PostForm)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return in, err
		}
		return form.Decode(r.PostForm)
	}

	dec := json.NewDecoder(r.Body)
	// an empty body is an item with no fields
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		return in, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, errTrailingData
	}
	return in, nil
}

// storageError answers 400 with the driver message, as the API contract
// requires, unless the server hides storage details.
func (s *Server) storageError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("Storage operation failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	message := err.Error()
	if s.opts.HideStorageErrors {
		message = msgStorageError
	}
	respondError(w, http.StatusBadRequest, message)
}
