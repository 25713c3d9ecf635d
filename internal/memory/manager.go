// ABOUTME: Manager is the sole API surface for reading and mutating memory blocks
// ABOUTME: Enforces domain invariants over the store and keeps a per-instance read cache
package memory

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/membank/membank/internal/models"
	"github.com/membank/membank/internal/storage/sqlite"
)

// Options configures a Manager
type Options struct {
	// MaxBlocks caps how many blocks may exist in scope. Zero means no cap.
	MaxBlocks int
}

// Manager enforces business invariants (char limits, read-only protection,
// duplicate labels) before delegating to the store, and mirrors the store in
// an in-process cache so reads after a completed mutation never go stale
// within the same process. The cache belongs to this instance; two Managers
// never share state.
type Manager struct {
	store     *sqlite.BlockStore
	maxBlocks int

	mu     sync.Mutex
	cache  map[string]*models.MemoryBlock // keyed by label
	loaded bool
}

// NewManager creates a Manager over the given store
func NewManager(store *sqlite.BlockStore, opts Options) *Manager {
	return &Manager{
		store:     store,
		maxBlocks: opts.MaxBlocks,
		cache:     make(map[string]*models.MemoryBlock),
	}
}

// LoadAll populates the cache from the store. Reads load it lazily on first
// access, so calling this is optional.
func (m *Manager) LoadAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

// Invalidate drops the cache; the next access reloads from the store. Needed
// only when another process may have mutated the underlying file.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*models.MemoryBlock)
	m.loaded = false
}

// loadLocked refreshes the cache from the store. Caller holds m.mu.
func (m *Manager) loadLocked() error {
	blocks, err := m.store.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load memory blocks: %w", err)
	}
	m.cache = make(map[string]*models.MemoryBlock, len(blocks))
	for _, block := range blocks {
		m.cache[block.Label] = block
	}
	m.loaded = true
	return nil
}

// ensureLoaded lazily populates the cache. Caller holds m.mu.
func (m *Manager) ensureLoaded() error {
	if m.loaded {
		return nil
	}
	return m.loadLocked()
}

// GetBlock returns the block with the given label, or (nil, nil) when absent
func (m *Manager) GetBlock(label string) (*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	block, ok := m.cache[label]
	if !ok {
		return nil, nil
	}
	return cloneBlock(block), nil
}

// GetBlocks returns all blocks sorted by label
func (m *Manager) GetBlocks() ([]*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocksLocked()
}

// blocksLocked returns label-sorted cache contents. Caller holds m.mu.
func (m *Manager) blocksLocked() ([]*models.MemoryBlock, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	blocks := make([]*models.MemoryBlock, 0, len(m.cache))
	for _, block := range m.cache {
		blocks = append(blocks, cloneBlock(block))
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Label < blocks[j].Label })
	return blocks, nil
}

// ListLabels returns all block labels sorted
func (m *Manager) ListLabels() ([]string, error) {
	blocks, err := m.GetBlocks()
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(blocks))
	for i, block := range blocks {
		labels[i] = block.Label
	}
	return labels, nil
}

// CreateBlock validates and persists a new block, then inserts it into the
// cache. Fails with ErrDuplicateLabel, ErrCharLimitExceeded, or ErrMaxBlocks.
func (m *Manager) CreateBlock(req models.BlockCreate) (*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, exists := m.cache[req.Label]; exists {
		return nil, fmt.Errorf("block %q: %w", req.Label, ErrDuplicateLabel)
	}
	if m.maxBlocks > 0 && len(m.cache) >= m.maxBlocks {
		return nil, fmt.Errorf("cannot create block %q (%d blocks in use): %w", req.Label, len(m.cache), ErrMaxBlocks)
	}
	if limit := req.EffectiveLimit(); utf8.RuneCountInString(req.Value) > limit {
		return nil, fmt.Errorf("block %q: value is %d chars, limit is %d: %w",
			req.Label, utf8.RuneCountInString(req.Value), limit, ErrCharLimitExceeded)
	}

	block, err := m.store.Create(&req)
	if err != nil {
		if errors.Is(err, sqlite.ErrDuplicateLabel) {
			return nil, fmt.Errorf("block %q: %w", req.Label, ErrDuplicateLabel)
		}
		return nil, fmt.Errorf("failed to create block %q: %w", req.Label, err)
	}

	m.cache[block.Label] = block
	return cloneBlock(block), nil
}

// UpdateBlock applies a partial update. Fails with ErrNotFound, ErrReadOnly,
// or ErrCharLimitExceeded; a rejected update leaves the stored block
// untouched. Shrinking the char limit below the current value length is
// rejected rather than truncated.
func (m *Manager) UpdateBlock(label string, updates models.BlockUpdate) (*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(label, updates)
}

// updateLocked carries the update semantics. Caller holds m.mu.
func (m *Manager) updateLocked(label string, updates models.BlockUpdate) (*models.MemoryBlock, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	existing, ok := m.cache[label]
	if !ok {
		return nil, fmt.Errorf("block %q: %w", label, ErrNotFound)
	}
	if existing.ReadOnly {
		return nil, fmt.Errorf("block %q: %w", label, ErrReadOnly)
	}

	limit := existing.CharLimit
	if updates.CharLimit != nil {
		limit = *updates.CharLimit
	}
	value := existing.Value
	if updates.Value != nil {
		value = *updates.Value
	}
	if chars := utf8.RuneCountInString(value); chars > limit {
		return nil, fmt.Errorf("block %q: value is %d chars, limit is %d: %w",
			label, chars, limit, ErrCharLimitExceeded)
	}

	block, err := m.store.Update(label, &updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update block %q: %w", label, err)
	}
	if block == nil {
		return nil, fmt.Errorf("block %q: %w", label, ErrNotFound)
	}

	m.cache[block.Label] = block
	return cloneBlock(block), nil
}

// DeleteBlock removes a block and its history. Reports whether a block was
// actually deleted; deleting an absent label is not an error.
func (m *Manager) DeleteBlock(label string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return false, err
	}

	if existing, ok := m.cache[label]; ok && existing.ReadOnly {
		return false, fmt.Errorf("block %q: %w", label, ErrReadOnly)
	}

	deleted, err := m.store.Delete(label)
	if err != nil {
		return false, fmt.Errorf("failed to delete block %q: %w", label, err)
	}
	delete(m.cache, label)
	return deleted, nil
}

// AppendBlock appends content to a block's value, separated from any existing
// content by a newline. An append that would overflow the char limit fails
// instead of truncating.
func (m *Manager) AppendBlock(label, content string, actor models.Actor) (*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	existing, ok := m.cache[label]
	if !ok {
		return nil, fmt.Errorf("block %q: %w", label, ErrNotFound)
	}

	value := existing.Value
	if value != "" {
		value += "\n"
	}
	value += content

	return m.updateLocked(label, models.BlockUpdate{Value: &value, Actor: actor})
}

// ReplaceBlock replaces the first occurrence of oldContent with newContent.
// An empty oldContent replaces the whole value (an empty newContent then
// clears it). Fails with ErrContentNotFound when oldContent is absent.
func (m *Manager) ReplaceBlock(label, oldContent, newContent string, actor models.Actor) (*models.MemoryBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	existing, ok := m.cache[label]
	if !ok {
		return nil, fmt.Errorf("block %q: %w", label, ErrNotFound)
	}
	if existing.ReadOnly {
		return nil, fmt.Errorf("block %q: %w", label, ErrReadOnly)
	}

	var value string
	if oldContent == "" {
		value = newContent
	} else {
		if !strings.Contains(existing.Value, oldContent) {
			return nil, fmt.Errorf("block %q: %q: %w", label, oldContent, ErrContentNotFound)
		}
		value = strings.Replace(existing.Value, oldContent, newContent, 1)
	}

	return m.updateLocked(label, models.BlockUpdate{Value: &value, Actor: actor})
}

// GetBlockHistory returns the audit trail for a block, newest version first
func (m *Manager) GetBlockHistory(label string) ([]*models.BlockHistory, error) {
	return m.store.GetHistory(label)
}

// Seed creates any configured default blocks that do not exist yet. Existing
// labels are left untouched. Failures are logged, not fatal: a bad seed must
// not keep the store from opening.
func (m *Manager) Seed(seeds []models.BlockCreate) error {
	for _, seed := range seeds {
		seed.Actor = models.ActorSystem
		_, err := m.CreateBlock(seed)
		if err != nil {
			if errors.Is(err, ErrDuplicateLabel) {
				continue
			}
			log.Printf("Warning: failed to seed memory block %q: %v", seed.Label, err)
		}
	}
	return nil
}

// Compile renders the current block set into the context text segment
func (m *Manager) Compile(opts CompileOptions) (string, error) {
	blocks, err := m.GetBlocks()
	if err != nil {
		return "", err
	}
	return Compile(blocks, opts), nil
}

// CompiledBlocks returns the structured view of the compiled block set
func (m *Manager) CompiledBlocks() ([]CompiledBlock, error) {
	blocks, err := m.GetBlocks()
	if err != nil {
		return nil, err
	}
	return CompileBlocks(blocks), nil
}

// EstimateTokens estimates the token budget of the compiled segment
func (m *Manager) EstimateTokens(opts CompileOptions) (int, error) {
	blocks, err := m.GetBlocks()
	if err != nil {
		return 0, err
	}
	return EstimateTokens(blocks, opts), nil
}

// cloneBlock copies a block so callers cannot mutate cache entries
func cloneBlock(block *models.MemoryBlock) *models.MemoryBlock {
	clone := *block
	if block.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(block.Metadata))
		for k, v := range block.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
