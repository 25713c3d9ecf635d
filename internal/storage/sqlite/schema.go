// ABOUTME: SQLite database schema for memory block storage
// ABOUTME: Creates the block and history tables with their indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Memory blocks table (durable labeled text blocks)
CREATE TABLE IF NOT EXISTS memory_blocks (
    id TEXT PRIMARY KEY,
    scope TEXT NOT NULL,
    label TEXT NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    description TEXT,
    char_limit INTEGER NOT NULL,
    read_only INTEGER NOT NULL DEFAULT 0,
    hidden INTEGER NOT NULL DEFAULT 0,
    metadata TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    version INTEGER NOT NULL DEFAULT 1,
    UNIQUE(scope, label)
);

-- History table (append-only audit trail, one row per block version)
CREATE TABLE IF NOT EXISTS memory_block_history (
    id TEXT PRIMARY KEY,
    block_id TEXT NOT NULL REFERENCES memory_blocks(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    created_by TEXT NOT NULL DEFAULT 'agent'
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_blocks_scope ON memory_blocks(scope);
CREATE INDEX IF NOT EXISTS idx_blocks_created ON memory_blocks(created_at);
CREATE INDEX IF NOT EXISTS idx_history_block ON memory_block_history(block_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
