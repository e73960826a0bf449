package store

// Schema contains the DDL for the domsnap tables.
const Schema = `
-- Snapshots: serialized node graphs, one row per emitted snapshot
CREATE TABLE IF NOT EXISTS snapshots (
    id        TEXT PRIMARY KEY,
    page_url  TEXT NOT NULL,
    page_id   TEXT NOT NULL DEFAULT '',
    root      TEXT NOT NULL,            -- JSON node graph
    hash      TEXT NOT NULL,
    timestamp INTEGER NOT NULL          -- epoch milliseconds
);
CREATE INDEX IF NOT EXISTS idx_snapshots_page ON snapshots(page_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_snapshots_hash ON snapshots(hash);

-- Stylesheet table: mirror id -> reconstructed CSS text, per snapshot
CREATE TABLE IF NOT EXISTS snapshot_stylesheets (
    snapshot_id TEXT NOT NULL,
    sheet_id    INTEGER NOT NULL,       -- StyleSheet Mirror id
    href        TEXT NOT NULL DEFAULT '',
    css         TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, sheet_id),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`
