// ABOUTME: Style tag storage operations for SQLite
// ABOUTME: Maintains the shared style vocabulary and per-cloth relations
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/samsam9395/my-ootd/internal/models"
)

// StyleTags returns the full style vocabulary ordered by name
func (s *Store) StyleTags(ctx context.Context) ([]models.StyleTag, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM styles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list style tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []models.StyleTag
	for rows.Next() {
		var tag models.StyleTag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// CreateStyleTags upserts the given names into the vocabulary and returns
// their rows. Blank names are dropped; existing names keep their ids.
func (s *Store) CreateStyleTags(ctx context.Context, names []string) ([]models.StyleTag, error) {
	cleaned := normalizeStyleNames(names)
	if len(cleaned) == 0 {
		return nil, nil
	}

	tags := make([]models.StyleTag, 0, len(cleaned))
	for _, name := range cleaned {
		var tag models.StyleTag
		// DO UPDATE keeps RETURNING populated on conflict
		err := s.db.QueryRow(ctx, `
			INSERT INTO styles (name) VALUES (?)
			ON CONFLICT(name) DO UPDATE SET name = excluded.name
			RETURNING id, name
		`, name).Scan(&tag.ID, &tag.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert style tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// replaceClothStyles rewrites a cloth's style relations wholesale
func (s *Store) replaceClothStyles(ctx context.Context, clothID int64, names []string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM clothes_styles WHERE cloth_id = ?`, clothID); err != nil {
		return fmt.Errorf("failed to clear cloth styles: %w", err)
	}

	tags, err := s.CreateStyleTags(ctx, names)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		_, err := s.db.Exec(ctx, `
			INSERT INTO clothes_styles (cloth_id, style_id) VALUES (?, ?)
			ON CONFLICT(cloth_id, style_id) DO NOTHING
		`, clothID, tag.ID)
		if err != nil {
			return fmt.Errorf("failed to relate style %q: %w", tag.Name, err)
		}
	}

	return nil
}

// stylesForCloths returns the style names for each given cloth id
func (s *Store) stylesForCloths(ctx context.Context, ids []int64) (map[int64][]string, error) {
	if len(ids) == 0 {
		return map[int64][]string{}, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT cs.cloth_id, st.name
		FROM clothes_styles cs
		JOIN styles st ON st.id = cs.style_id
		WHERE cs.cloth_id IN (%s)
		ORDER BY st.name
	`, placeholders(len(ids)))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cloth styles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[int64][]string)
	for rows.Next() {
		var (
			clothID int64
			name    string
		)
		if err := rows.Scan(&clothID, &name); err != nil {
			return nil, err
		}
		result[clothID] = append(result[clothID], name)
	}

	return result, rows.Err()
}

// normalizeStyleNames trims, lowercases, and dedupes style names in order
func normalizeStyleNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var cleaned []string
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cleaned = append(cleaned, n)
	}
	return cleaned
}
