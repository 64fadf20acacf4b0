package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/web/templates"
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// idParam reads a positive int64 path parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be a number", name)
	}
	return n, nil
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := core.ProductQuery{
		Query:           q.Get("q"),
		SKU:             q.Get("sku"),
		Barcode:         q.Get("barcode"),
		IncludeInactive: q.Get("include_inactive") == "true",
	}

	var err error
	if query.Page, err = queryInt(r, "page"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if query.PageSize, err = queryInt(r, "page_size"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(w, r, badRequest("category_id must be a number"), http.StatusBadRequest)
			return
		}
		query.CategoryID = id
	}

	page, err := s.service.SearchProducts(r.Context(), query)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, page)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	p, err := s.service.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

// handlePlaceOrder accepts a JSON body or a form post from the order page.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	req, err := decodeOrderRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	req.ProductID = id

	receipt, err := s.service.PlaceOrder(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_ = templates.OrderConfirmation(receipt).Render(r.Context(), w)
		return
	}
	writeJSONStatus(w, http.StatusCreated, receipt)
}

func decodeOrderRequest(r *http.Request) (core.OrderRequest, error) {
	var req core.OrderRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 64<<10)).Decode(&req); err != nil {
			return req, badRequest("invalid JSON body")
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, badRequest("invalid form")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("quantity")))
	if err != nil {
		return req, badRequest("quantity must be a number")
	}
	req.Quantity = qty
	req.CustomerName = r.PostForm.Get("customer_name")
	req.CustomerPhone = r.PostForm.Get("customer_phone")
	req.Notes = r.PostForm.Get("notes")
	return req, nil
}
