// ABOUTME: MemoryBlock is the unit of persisted agent memory
// ABOUTME: Defines block, history, and create/update request types
package models

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCharLimit is the value-length ceiling applied when a block is
// created without an explicit limit.
const DefaultCharLimit = 4000

// DefaultScope is the logical scope blocks live in unless configured
// otherwise. Memory is shared across sessions, not per-conversation.
const DefaultScope = "global"

// Actor identifies who made a change, recorded in history rows.
type Actor string

const (
	ActorAgent  Actor = "agent"
	ActorUser   Actor = "user"
	ActorSystem Actor = "system"
)

// MemoryBlock is a durable, labeled, versioned text block that an agent
// reads and mutates across sessions.
type MemoryBlock struct {
	ID          string                 `json:"id"`
	Scope       string                 `json:"scope"`
	Label       string                 `json:"label"`
	Value       string                 `json:"value"`
	Description string                 `json:"description,omitempty"`
	CharLimit   int                    `json:"char_limit"`
	ReadOnly    bool                   `json:"read_only"`
	Hidden      bool                   `json:"hidden"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Version     int                    `json:"version"`
}

// BlockHistory is one row of the append-only audit trail. A row exists for
// every version of a block, including version 1 at creation.
type BlockHistory struct {
	ID        string    `json:"id"`
	BlockID   string    `json:"block_id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy Actor     `json:"created_by"`
}

// BlockCreate describes a block to be created. A zero CharLimit means
// DefaultCharLimit.
type BlockCreate struct {
	Label       string                 `json:"label"`
	Value       string                 `json:"value"`
	Description string                 `json:"description,omitempty"`
	CharLimit   int                    `json:"char_limit,omitempty"`
	ReadOnly    bool                   `json:"read_only,omitempty"`
	Hidden      bool                   `json:"hidden,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Actor       Actor                  `json:"-"`
}

// Validate checks the create request before it reaches storage.
func (c *BlockCreate) Validate() error {
	if c.Label == "" {
		return errors.New("label cannot be empty")
	}
	if c.CharLimit < 0 {
		return fmt.Errorf("char limit must be positive, got %d", c.CharLimit)
	}
	return nil
}

// EffectiveLimit returns the explicit limit or the default.
func (c *BlockCreate) EffectiveLimit() int {
	if c.CharLimit > 0 {
		return c.CharLimit
	}
	return DefaultCharLimit
}

// BlockUpdate is a partial update: nil fields are left unchanged. Pointer
// fields keep "set to zero value" distinct from "not provided".
type BlockUpdate struct {
	Value       *string                `json:"value,omitempty"`
	Description *string                `json:"description,omitempty"`
	CharLimit   *int                   `json:"char_limit,omitempty"`
	ReadOnly    *bool                  `json:"read_only,omitempty"`
	Hidden      *bool                  `json:"hidden,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Actor       Actor                  `json:"-"`
}

// Empty reports whether the update carries no field changes at all.
func (u *BlockUpdate) Empty() bool {
	return u.Value == nil && u.Description == nil && u.CharLimit == nil &&
		u.ReadOnly == nil && u.Hidden == nil && u.Metadata == nil
}

// ActorOrDefault returns the actor tag, defaulting to the agent.
func (u *BlockUpdate) ActorOrDefault() Actor {
	if u.Actor == "" {
		return ActorAgent
	}
	return u.Actor
}

// Ptr returns a pointer to v, for building BlockUpdate literals.
func Ptr[T any](v T) *T {
	return &v
}
