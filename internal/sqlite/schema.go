package sqlite

// Schema DDL. Statements are idempotent because the database file persists
// across attaches.
const (
	createCards = `CREATE TABLE IF NOT EXISTS cards (
    card_id TEXT PRIMARY KEY,
    parent_id TEXT,
    card_type TEXT NOT NULL,
    label TEXT NOT NULL,
    sort_order REAL NOT NULL,
    image BLOB,
    image_mime TEXT,
    audio BLOB,
    audio_mime TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL for the per-scope listing query.
const (
	idxCardsParentTypeOrder = `CREATE INDEX IF NOT EXISTS idx_cards_parent_type_order ON cards(parent_id, card_type, sort_order, card_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCards,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCardsParentTypeOrder,
}

// cardColumns is the column list shared by every card query and insert.
const cardColumns = "card_id, parent_id, card_type, label, sort_order, image, image_mime, audio, audio_mime"
