// ABOUTME: SQLite database schema for the clothes catalog
// ABOUTME: Creates clothes, styles, and the clothes-styles relation table
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Clothes table (one row per catalog entry, scoped by owner)
CREATE TABLE IF NOT EXISTS clothes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    category TEXT NOT NULL,
    colour TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    embedding TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(owner_id, name)
);

-- Style tags (shared vocabulary across owners)
CREATE TABLE IF NOT EXISTS styles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- Clothes to styles relation
CREATE TABLE IF NOT EXISTS clothes_styles (
    cloth_id INTEGER NOT NULL REFERENCES clothes(id) ON DELETE CASCADE,
    style_id INTEGER NOT NULL REFERENCES styles(id) ON DELETE CASCADE,
    PRIMARY KEY (cloth_id, style_id)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_clothes_owner ON clothes(owner_id);
CREATE INDEX IF NOT EXISTS idx_clothes_owner_category ON clothes(owner_id, category);
CREATE INDEX IF NOT EXISTS idx_clothes_styles_cloth ON clothes_styles(cloth_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
