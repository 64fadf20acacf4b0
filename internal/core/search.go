package core

import (
	"context"
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxOffset keeps row offsets inside the INTEGER range of the store.
	MaxOffset = math.MaxInt32
)

// ProductQuery filters the catalog. Query matches names case-insensitively
// as a substring; SKU and Barcode match exactly. Zero values are ignored.
type ProductQuery struct {
	Query           string `json:"q"`
	SKU             string `json:"sku"`
	Barcode         string `json:"barcode"`
	CategoryID      int64  `json:"category_id"`
	IncludeInactive bool   `json:"include_inactive"`
	Page            int    `json:"page"`
	PageSize        int    `json:"page_size"`
}

// Normalize trims the filters and clamps paging.
func (q *ProductQuery) Normalize() {
	q.Query = strings.TrimSpace(q.Query)
	q.SKU = strings.TrimSpace(q.SKU)
	q.Barcode = strings.TrimSpace(q.Barcode)
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = DefaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	if maxPage := MaxOffset/q.PageSize + 1; q.Page > maxPage {
		q.Page = maxPage
	}
}

// Offset is the row offset of the current page.
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ProductPage is one page of search results.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// SearchProducts returns one page of matching products.
func (s *Service) SearchProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	q.Normalize()
	products, total, err := s.store.SearchProducts(ctx, q)
	if err != nil {
		return nil, classify("search products", err)
	}
	if products == nil {
		products = []Product{}
	}
	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}
