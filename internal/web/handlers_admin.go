package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/catalog/internal/core"
)

// maxAdminBody caps JSON bodies on admin endpoints.
const maxAdminBody = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAdminBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.OrderFilter{Status: core.OrderStatus(q.Get("status"))}

	var err error
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if f.Offset, err = queryInt(r, "offset"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if raw := q.Get("product_id"); raw != "" {
		if f.ProductID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			s.respondError(w, r, badRequest("product_id must be a number"), http.StatusBadRequest)
			return
		}
	}

	orders, err := s.service.ListOrders(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, orders)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	o, err := s.service.UpdateOrderStatus(r.Context(), id, body.Status)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, o)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.service.ListSettings(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, settings)
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	setting, err := s.service.PutSetting(r.Context(), chi.URLParam(r, "key"), body.Value)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, setting)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.service.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft core.CategoryDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.service.CreateCategory(r.Context(), draft)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusCreated, c)
}

// handleMoveCategory re-parents a category. A null parent_id makes it a root.
func (s *Server) handleMoveCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var body struct {
		ParentID *int64 `json:"parent_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.service.MoveCategory(r.Context(), id, body.ParentID); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if body.Active == nil {
		s.respondError(w, r, badRequest("active is required"), http.StatusBadRequest)
		return
	}

	if err := s.service.SetProductActive(r.Context(), id, *body.Active); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var nu core.NewUser
	if err := decodeJSON(w, r, &nu); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	u, err := s.service.CreateUser(r.Context(), nu)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusCreated, u)
}

func (s *Server) handleListImportRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	runs, err := s.service.ListImportRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}
