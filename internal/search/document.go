// Package search provides full-text search over the product catalog
// using Bleve. It supports fuzzy matching, prefix queries for
// autocomplete, and numeric range filtering on price.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// ProductDocument is the document structure for the Bleve index.
//
// Design note: the Details map is flattened into a single searchable text
// blob so queries like "monocrystalline" match products whose spec sheet
// mentions it, without needing a dynamic mapping per spec label.
type ProductDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Capacity    string `json:"capacity,omitempty"` // e.g. "550W", "5kWh"
	Description string `json:"description,omitempty"`
	Details     string `json:"details,omitempty"` // Flattened spec labels and values

	// Numeric fields for range queries and sorting
	Price float64 `json:"price"`

	// Timestamps for sorting, Unix millis
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *ProductDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"price":      d.Price,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Capacity != "" {
		m["capacity"] = d.Capacity
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Details != "" {
		m["details"] = d.Details
	}

	return m
}

// ProductToSearchDocument converts a domain Product to a ProductDocument.
func ProductToSearchDocument(p *domain.Product) *ProductDocument {
	return &ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		Capacity:    p.Capacity,
		Description: p.Description,
		Details:     flattenDetails(p.Details),
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

// flattenDetails turns the free-form spec map into one searchable string.
// Keys are sorted so repeated indexing of the same product produces the
// same document.
func flattenDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(details[k]))
	}
	return b.String()
}
