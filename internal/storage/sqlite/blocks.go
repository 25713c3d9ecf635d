// ABOUTME: Memory block storage operations for SQLite
// ABOUTME: Implements CRUD plus history tracking with per-operation transactions
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/membank/membank/internal/models"
)

// ErrDuplicateLabel is returned by Create when a block with the same label
// already exists in the store's scope.
var ErrDuplicateLabel = errors.New("duplicate block label in scope")

// BlockStore handles memory block persistence for a single scope
type BlockStore struct {
	db    *DB
	scope string
}

// NewBlockStore creates a new BlockStore bound to the given scope
func NewBlockStore(db *DB, scope string) *BlockStore {
	if scope == "" {
		scope = models.DefaultScope
	}
	return &BlockStore{db: db, scope: scope}
}

// Scope returns the logical scope this store reads and writes
func (s *BlockStore) Scope() string {
	return s.scope
}

// Create persists a new block at version 1 and writes its first history row.
// Both rows commit as a single transaction.
func (s *BlockStore) Create(req *models.BlockCreate) (*models.MemoryBlock, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	metadataJSON, err := marshalMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	block := &models.MemoryBlock{
		ID:          "block_" + uuid.New().String(),
		Scope:       s.scope,
		Label:       req.Label,
		Value:       req.Value,
		Description: req.Description,
		CharLimit:   req.EffectiveLimit(),
		ReadOnly:    req.ReadOnly,
		Hidden:      req.Hidden,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM memory_blocks WHERE scope = ? AND label = ?`,
		s.scope, req.Label).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, fmt.Errorf("label %q: %w", req.Label, ErrDuplicateLabel)
	}

	_, err = tx.Exec(`
		INSERT INTO memory_blocks (id, scope, label, value, description, char_limit, read_only, hidden, metadata, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, block.ID, block.Scope, block.Label, block.Value, block.Description,
		block.CharLimit, boolToInt(block.ReadOnly), boolToInt(block.Hidden),
		metadataJSON, block.CreatedAt, block.UpdatedAt, block.Version)
	if err != nil {
		return nil, err
	}

	if err := insertHistory(tx, block, actorOrAgent(req.Actor), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return block, nil
}

// GetByLabel retrieves a block by label. Returns (nil, nil) when absent.
func (s *BlockStore) GetByLabel(label string) (*models.MemoryBlock, error) {
	row := s.db.QueryRow(`
		SELECT id, scope, label, value, description, char_limit, read_only, hidden, metadata, created_at, updated_at, version
		FROM memory_blocks
		WHERE scope = ? AND label = ?
	`, s.scope, label)

	block, err := scanBlock(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// GetAll retrieves every block in scope, ordered by label so the compiled
// output is deterministic.
func (s *BlockStore) GetAll() ([]*models.MemoryBlock, error) {
	rows, err := s.db.Query(`
		SELECT id, scope, label, value, description, char_limit, read_only, hidden, metadata, created_at, updated_at, version
		FROM memory_blocks
		WHERE scope = ?
		ORDER BY label
	`, s.scope)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var blocks []*models.MemoryBlock
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// Count returns the number of blocks in scope
func (s *BlockStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM memory_blocks WHERE scope = ?`, s.scope).Scan(&n)
	return n, err
}

// Update merges only the provided fields into the stored block. The version
// increments and a history row is written only when Value is among the
// changes; both writes commit as one transaction. Returns (nil, nil) when no
// block with the label exists.
func (s *BlockStore) Update(label string, updates *models.BlockUpdate) (*models.MemoryBlock, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRow(`
		SELECT id, scope, label, value, description, char_limit, read_only, hidden, metadata, created_at, updated_at, version
		FROM memory_blocks
		WHERE scope = ? AND label = ?
	`, s.scope, label)

	block, err := scanBlock(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	valueChanged := updates.Value != nil

	if updates.Value != nil {
		block.Value = *updates.Value
	}
	if updates.Description != nil {
		block.Description = *updates.Description
	}
	if updates.CharLimit != nil {
		block.CharLimit = *updates.CharLimit
	}
	if updates.ReadOnly != nil {
		block.ReadOnly = *updates.ReadOnly
	}
	if updates.Hidden != nil {
		block.Hidden = *updates.Hidden
	}
	if updates.Metadata != nil {
		block.Metadata = updates.Metadata
	}
	block.UpdatedAt = now
	if valueChanged {
		block.Version++
	}

	metadataJSON, err := marshalMetadata(block.Metadata)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE memory_blocks
		SET value = ?, description = ?, char_limit = ?, read_only = ?, hidden = ?, metadata = ?, updated_at = ?, version = ?
		WHERE scope = ? AND label = ?
	`, block.Value, block.Description, block.CharLimit, boolToInt(block.ReadOnly),
		boolToInt(block.Hidden), metadataJSON, block.UpdatedAt, block.Version,
		s.scope, label)
	if err != nil {
		return nil, err
	}

	if valueChanged {
		if err := insertHistory(tx, block, updates.ActorOrDefault(), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return block, nil
}

// Delete removes a block; its history rows cascade delete. Reports whether a
// row was actually removed.
func (s *BlockStore) Delete(label string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM memory_blocks WHERE scope = ? AND label = ?`, s.scope, label)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetHistory returns history rows for a block, newest version first. A label
// with no block yields an empty slice.
func (s *BlockStore) GetHistory(label string) ([]*models.BlockHistory, error) {
	rows, err := s.db.Query(`
		SELECT h.id, h.block_id, h.label, h.value, h.version, h.created_at, h.created_by
		FROM memory_block_history h
		JOIN memory_blocks b ON b.id = h.block_id
		WHERE b.scope = ? AND b.label = ?
		ORDER BY h.version DESC
	`, s.scope, label)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []*models.BlockHistory
	for rows.Next() {
		var (
			h         models.BlockHistory
			createdBy string
		)
		if err := rows.Scan(&h.ID, &h.BlockID, &h.Label, &h.Value, &h.Version, &h.CreatedAt, &createdBy); err != nil {
			return nil, err
		}
		h.CreatedBy = models.Actor(createdBy)
		history = append(history, &h)
	}
	return history, rows.Err()
}

// insertHistory writes the audit row for the block's current version
func insertHistory(tx *sql.Tx, block *models.MemoryBlock, actor models.Actor, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO memory_block_history (id, block_id, label, value, version, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, "hist_"+uuid.New().String(), block.ID, block.Label, block.Value, block.Version, now, string(actor))
	return err
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBlock scans one block row
func scanBlock(row rowScanner) (*models.MemoryBlock, error) {
	var (
		block        models.MemoryBlock
		description  sql.NullString
		metadataJSON sql.NullString
		readOnly     int
		hidden       int
	)

	err := row.Scan(&block.ID, &block.Scope, &block.Label, &block.Value, &description,
		&block.CharLimit, &readOnly, &hidden, &metadataJSON, &block.CreatedAt,
		&block.UpdatedAt, &block.Version)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		block.Description = description.String
	}
	block.ReadOnly = readOnly != 0
	block.Hidden = hidden != 0

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &block.Metadata); err != nil {
			block.Metadata = nil
		}
	}

	return &block, nil
}

// marshalMetadata serializes the metadata bag, NULL when empty
func marshalMetadata(metadata map[string]interface{}) (interface{}, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func actorOrAgent(a models.Actor) models.Actor {
	if a == "" {
		return models.ActorAgent
	}
	return a
}
