// ABOUTME: Catalog models for clothes and style tags
// ABOUTME: Defines Cloth rows, wire projections, and the embedded-entry view used by the vector cache
package models

import "time"

// Cloth is one clothing item in an owner's catalog.
// Embedding is nil until the embedding generator has run for the entry.
type Cloth struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Colour    string    `json:"colour"`
	Styles    []string  `json:"styles"`
	Embedding []float64 `json:"-"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"-"`
}

// ClothDetail is the projection returned to clients and fed into prompts.
type ClothDetail struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Colour   string   `json:"colour"`
	Category string   `json:"category"`
	Styles   []string `json:"styles"`
	ImageURL string   `json:"image_url,omitempty"`
}

// EmbeddedCloth is the minimal view the vector cache reads from the catalog:
// just the id, category, and stored embedding vector.
type EmbeddedCloth struct {
	ID        int64
	Category  string
	Embedding []float64
}

// StyleTag is a reusable style label shared across clothes.
type StyleTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
