// ABOUTME: Catalog storage operations for SQLite
// ABOUTME: Owner-scoped CRUD for clothes with embedding generation on write
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/samsam9395/my-ootd/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Store manages the clothes catalog. When an embedder is configured, inserts
// and updates generate the entry's embedding vector as a side effect.
type Store struct {
	db       *DB
	embedder interface {
		GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
	}
}

// NewStore creates a catalog store on top of an open database
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SetEmbedder wires the embedding generator used on cloth writes.
// Without one, entries are stored with a NULL embedding and stay out of
// recommendations until rewritten.
func (s *Store) SetEmbedder(embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}) {
	s.embedder = embedder
}

// DB returns the underlying database handle
func (s *Store) DB() *DB {
	return s.db
}

// ClothInput is the caller-provided payload for creating or updating a cloth
type ClothInput struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Colour   string   `json:"colour"`
	ImageURL string   `json:"image_url"`
	Styles   []string `json:"styles"`
}

// EmbeddingText builds the descriptive text the embedding generator encodes
// for a cloth entry.
func EmbeddingText(typ, name, colour string, styles []string) string {
	return fmt.Sprintf("%s: %s, %s, styles: %s", typ, name, colour, strings.Join(styles, ", "))
}

// UpsertCloth inserts a cloth or updates the owner's existing entry with the
// same name. The embedding is regenerated from the entry's descriptive text;
// a failed embedding call is logged and the write proceeds without it.
func (s *Store) UpsertCloth(ctx context.Context, ownerID string, input ClothInput) (*models.Cloth, error) {
	name := strings.TrimSpace(norm.NFC.String(input.Name))
	if name == "" {
		return nil, fmt.Errorf("cloth name is required")
	}
	typ := normalizeField(input.Type)
	category := normalizeField(input.Category)
	colour := normalizeField(input.Colour)
	styles := normalizeStyleNames(input.Styles)

	var embedding interface{} // nil stores SQL NULL
	if s.embedder != nil {
		vec, err := s.embedder.GenerateEmbedding(ctx, EmbeddingText(typ, name, colour, styles))
		if err != nil {
			log.Printf("[Catalog] failed to generate embedding for %q: %v", name, err)
		} else if raw, jerr := json.Marshal(vec); jerr == nil {
			embedding = string(raw)
		}
	}

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO clothes (owner_id, name, type, category, colour, image_url, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, name) DO UPDATE SET
			type = excluded.type,
			category = excluded.category,
			colour = excluded.colour,
			image_url = CASE WHEN excluded.image_url != '' THEN excluded.image_url ELSE clothes.image_url END,
			embedding = COALESCE(excluded.embedding, clothes.embedding)
		RETURNING id
	`, ownerID, name, typ, category, colour, strings.TrimSpace(input.ImageURL), embedding).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cloth: %w", err)
	}

	if err := s.replaceClothStyles(ctx, id, styles); err != nil {
		return nil, err
	}

	return s.GetCloth(ctx, ownerID, id)
}

// GetCloth retrieves a single cloth by id, scoped to its owner.
// Returns (nil, nil) when the owner has no such entry.
func (s *Store) GetCloth(ctx context.Context, ownerID string, id int64) (*models.Cloth, error) {
	var (
		c         models.Cloth
		embedding sql.NullString
	)

	err := s.db.QueryRow(ctx, `
		SELECT id, owner_id, name, type, category, colour, image_url, embedding, created_at
		FROM clothes
		WHERE owner_id = ? AND id = ?
	`, ownerID, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Type, &c.Category, &c.Colour,
		&c.ImageURL, &embedding, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if embedding.Valid {
		if jerr := json.Unmarshal([]byte(embedding.String), &c.Embedding); jerr != nil {
			log.Printf("[Catalog] corrupt embedding for cloth %d: %v", c.ID, jerr)
			c.Embedding = nil
		}
	}

	styles, err := s.stylesForCloths(ctx, []int64{c.ID})
	if err != nil {
		return nil, err
	}
	c.Styles = styles[c.ID]
	if c.Styles == nil {
		c.Styles = []string{}
	}

	return &c, nil
}

// ListEmbedded returns the id, category, and embedding of every entry the
// owner has with a stored vector. Rows with unreadable vectors are skipped.
func (s *Store) ListEmbedded(ctx context.Context, ownerID string) ([]models.EmbeddedCloth, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category, embedding
		FROM clothes
		WHERE owner_id = ? AND embedding IS NOT NULL
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded clothes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.EmbeddedCloth
	for rows.Next() {
		var (
			ec  models.EmbeddedCloth
			raw string
		)
		if err := rows.Scan(&ec.ID, &ec.Category, &raw); err != nil {
			return nil, err
		}
		if jerr := json.Unmarshal([]byte(raw), &ec.Embedding); jerr != nil {
			log.Printf("[Catalog] skipping cloth %d with corrupt embedding: %v", ec.ID, jerr)
			continue
		}
		result = append(result, ec)
	}

	return result, rows.Err()
}

// DetailsForIDs fetches projections for the given ids in one query, scoped to
// the owner. Unknown ids are simply absent from the result. Image URLs are
// omitted unless withImage is set.
func (s *Store) DetailsForIDs(ctx context.Context, ownerID string, ids []int64, withImage bool) ([]models.ClothDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, name, type, colour, category, image_url
		FROM clothes
		WHERE owner_id = ? AND id IN (%s)
		ORDER BY id
	`, placeholders(len(ids)))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cloth details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanDetails(ctx, rows, withImage)
}

// ListByCategory returns detail projections for the owner's wardrobe page,
// optionally filtered by category. An empty category means no filter.
func (s *Store) ListByCategory(ctx context.Context, ownerID, category string, limit, offset int) ([]models.ClothDetail, error) {
	query := `
		SELECT id, name, type, colour, category, image_url
		FROM clothes
		WHERE owner_id = ?`
	args := []interface{}{ownerID}

	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clothes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanDetails(ctx, rows, true)
}

// RandomClothes returns up to n random entries for the Shuffle view
func (s *Store) RandomClothes(ctx context.Context, ownerID string, n int) ([]models.ClothDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, colour, category, image_url
		FROM clothes
		WHERE owner_id = ?
		ORDER BY RANDOM()
		LIMIT ?
	`, ownerID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch random clothes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanDetails(ctx, rows, true)
}

// UpdateImageURL sets the image reference on an owner's cloth.
// Returns false when no such entry exists.
func (s *Store) UpdateImageURL(ctx context.Context, ownerID string, id int64, imageURL string) (bool, error) {
	res, err := s.db.Exec(ctx, `
		UPDATE clothes SET image_url = ? WHERE owner_id = ? AND id = ?
	`, imageURL, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("failed to update image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteCloth removes an owner's cloth and its style relations.
// Returns false when no such entry exists.
func (s *Store) DeleteCloth(ctx context.Context, ownerID string, id int64) (bool, error) {
	res, err := s.db.Exec(ctx, `
		DELETE FROM clothes WHERE owner_id = ? AND id = ?
	`, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete cloth: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// scanDetails drains detail rows and attaches style names in one extra query
func (s *Store) scanDetails(ctx context.Context, rows *sql.Rows, withImage bool) ([]models.ClothDetail, error) {
	var details []models.ClothDetail
	var ids []int64

	for rows.Next() {
		var d models.ClothDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Colour, &d.Category, &d.ImageURL); err != nil {
			return nil, err
		}
		if !withImage {
			d.ImageURL = ""
		}
		details = append(details, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	styles, err := s.stylesForCloths(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].Styles = styles[details[i].ID]
		if details[i].Styles == nil {
			details[i].Styles = []string{}
		}
	}

	return details, nil
}

// normalizeField canonicalizes free-text attribute values before storage
func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// placeholders returns n comma-separated SQL placeholders
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
