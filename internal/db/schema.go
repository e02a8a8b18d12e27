package db

const postgresSchema = `
CREATE TABLE IF NOT EXISTS items (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT NOT NULL CHECK (title <> ''),
    description   TEXT NOT NULL CHECK (description <> ''),
    category      TEXT NOT NULL CHECK (category <> ''),
    status        TEXT NOT NULL CHECK (status IN ('lost', 'found')),
    location      TEXT NOT NULL CHECK (location <> ''),
    contact_name  TEXT NOT NULL CHECK (contact_name <> ''),
    contact_email TEXT NOT NULL CHECK (contact_email <> ''),
    contact_phone TEXT NOT NULL DEFAULT '',
    date_created  TIMESTAMPTZ NOT NULL DEFAULT now(),
    date_resolved TIMESTAMPTZ,
    is_resolved   BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT items_resolution_consistent CHECK (is_resolved = (date_resolved IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_items_status_resolved ON items (status, is_resolved);
CREATE INDEX IF NOT EXISTS idx_items_category ON items (category);
CREATE INDEX IF NOT EXISTS idx_items_created ON items (date_created DESC, id DESC);
`

// Las fechas van como TEXT de ancho fijo (ver items.SQLiteRepository).
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    title         TEXT NOT NULL CHECK (title <> ''),
    description   TEXT NOT NULL CHECK (description <> ''),
    category      TEXT NOT NULL CHECK (category <> ''),
    status        TEXT NOT NULL CHECK (status IN ('lost', 'found')),
    location      TEXT NOT NULL CHECK (location <> ''),
    contact_name  TEXT NOT NULL CHECK (contact_name <> ''),
    contact_email TEXT NOT NULL CHECK (contact_email <> ''),
    contact_phone TEXT NOT NULL DEFAULT '',
    date_created  TEXT NOT NULL,
    date_resolved TEXT,
    is_resolved   INTEGER NOT NULL DEFAULT 0,
    CHECK (is_resolved = (date_resolved IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_items_status_resolved ON items (status, is_resolved);
CREATE INDEX IF NOT EXISTS idx_items_category ON items (category);
CREATE INDEX IF NOT EXISTS idx_items_created ON items (date_created DESC, id DESC);
`
