// ABOUTME: Tests for memory block storage operations
// ABOUTME: Verifies CRUD, versioning, and history tracking against in-memory SQLite
package sqlite

import (
	"errors"
	"testing"

	"github.com/membank/membank/internal/models"
)

func newTestStore(t *testing.T) *BlockStore {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBlockStore(db, "test")
}

func TestBlockCreate(t *testing.T) {
	store := newTestStore(t)

	block, err := store.Create(&models.BlockCreate{
		Label:       "persona",
		Value:       "terse and helpful",
		Description: "agent persona",
		Metadata:    map[string]interface{}{"origin": "seed"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if block.ID == "" {
		t.Error("Create() should assign an id")
	}
	if block.Version != 1 {
		t.Errorf("Version = %d, want 1", block.Version)
	}
	if block.CharLimit != models.DefaultCharLimit {
		t.Errorf("CharLimit = %d, want default %d", block.CharLimit, models.DefaultCharLimit)
	}
	if block.Scope != "test" {
		t.Errorf("Scope = %q, want %q", block.Scope, "test")
	}

	retrieved, err := store.GetByLabel("persona")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetByLabel() returned nil")
	}
	if retrieved.Value != "terse and helpful" {
		t.Errorf("Value = %q, want %q", retrieved.Value, "terse and helpful")
	}
	if retrieved.Metadata["origin"] != "seed" {
		t.Errorf("Metadata[origin] = %v, want seed", retrieved.Metadata["origin"])
	}

	// Creation writes the version-1 history row
	history, err := store.GetHistory("persona")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Version != 1 || history[0].Value != "terse and helpful" {
		t.Errorf("history[0] = v%d %q, want v1 %q", history[0].Version, history[0].Value, "terse and helpful")
	}
	if history[0].CreatedBy != models.ActorAgent {
		t.Errorf("CreatedBy = %q, want agent default", history[0].CreatedBy)
	}
}

func TestBlockCreateDuplicateLabel(t *testing.T) {
	store := newTestStore(t)

	original, err := store.Create(&models.BlockCreate{Label: "tasks", Value: "original"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = store.Create(&models.BlockCreate{Label: "tasks", Value: "collision"})
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("Create() error = %v, want ErrDuplicateLabel", err)
	}

	// The failed create must leave the original untouched
	retrieved, err := store.GetByLabel("tasks")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if retrieved.Value != "original" || retrieved.Version != original.Version {
		t.Errorf("original block modified: %q v%d", retrieved.Value, retrieved.Version)
	}
}

func TestGetByLabelAbsent(t *testing.T) {
	store := newTestStore(t)

	block, err := store.GetByLabel("nope")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if block != nil {
		t.Errorf("GetByLabel() = %+v, want nil for absent label", block)
	}
}

func TestGetAllSortedByLabel(t *testing.T) {
	store := newTestStore(t)

	for _, label := range []string{"zeta", "alpha", "mid"} {
		if _, err := store.Create(&models.BlockCreate{Label: label}); err != nil {
			t.Fatalf("Create(%q) error = %v", label, err)
		}
	}

	blocks, err := store.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("GetAll() length = %d, want 3", len(blocks))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, label := range want {
		if blocks[i].Label != label {
			t.Errorf("blocks[%d].Label = %q, want %q", i, blocks[i].Label, label)
		}
	}
}

func TestUpdateValueBumpsVersionAndHistory(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&models.BlockCreate{Label: "tasks", Value: "a"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := store.Update("tasks", &models.BlockUpdate{
		Value: models.Ptr("a\nb"),
		Actor: models.ActorUser,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}

	history, err := store.GetHistory("tasks")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	// Newest version first
	if history[0].Version != 2 || history[0].Value != "a\nb" {
		t.Errorf("history[0] = v%d %q, want v2 %q", history[0].Version, history[0].Value, "a\nb")
	}
	if history[0].CreatedBy != models.ActorUser {
		t.Errorf("CreatedBy = %q, want user", history[0].CreatedBy)
	}
	if history[1].Version != 1 {
		t.Errorf("history[1].Version = %d, want 1", history[1].Version)
	}
}

func TestUpdateMetadataOnlyKeepsVersion(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(&models.BlockCreate{Label: "tasks", Value: "a"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := store.Update("tasks", &models.BlockUpdate{
		Description: models.Ptr("open tasks"),
		CharLimit:   models.Ptr(8000),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Version != created.Version {
		t.Errorf("Version = %d, want unchanged %d", updated.Version, created.Version)
	}
	if updated.Description != "open tasks" {
		t.Errorf("Description = %q, want %q", updated.Description, "open tasks")
	}
	if updated.CharLimit != 8000 {
		t.Errorf("CharLimit = %d, want 8000", updated.CharLimit)
	}
	if updated.Value != "a" {
		t.Errorf("Value = %q, want unchanged %q", updated.Value, "a")
	}

	history, err := store.GetHistory("tasks")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1 (no row for metadata-only update)", len(history))
	}
}

func TestUpdatePartialFieldsDistinguishEmpty(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&models.BlockCreate{Label: "tasks", Value: "a", Description: "d"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Explicitly setting value to "" is a change; absent description is not
	updated, err := store.Update("tasks", &models.BlockUpdate{Value: models.Ptr("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Value != "" {
		t.Errorf("Value = %q, want empty", updated.Value)
	}
	if updated.Description != "d" {
		t.Errorf("Description = %q, want unchanged %q", updated.Description, "d")
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2 (clearing the value is a value change)", updated.Version)
	}
}

func TestUpdateAbsentLabel(t *testing.T) {
	store := newTestStore(t)

	block, err := store.Update("nope", &models.BlockUpdate{Value: models.Ptr("x")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if block != nil {
		t.Errorf("Update() = %+v, want nil for absent label", block)
	}
}

func TestDeleteCascadesHistory(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&models.BlockCreate{Label: "tasks", Value: "a"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Update("tasks", &models.BlockUpdate{Value: models.Ptr("b")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	deleted, err := store.Delete("tasks")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true")
	}

	block, err := store.GetByLabel("tasks")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if block != nil {
		t.Error("GetByLabel() should return nil after delete")
	}

	history, err := store.GetHistory("tasks")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history length = %d, want 0 after cascade delete", len(history))
	}

	// Deleting again reports no row removed
	deleted, err = store.Delete("tasks")
	if err != nil {
		t.Fatalf("Delete() second error = %v", err)
	}
	if deleted {
		t.Error("Delete() = true for absent label, want false")
	}
}

func TestScopeIsolation(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	first := NewBlockStore(db, "alpha")
	second := NewBlockStore(db, "beta")

	if _, err := first.Create(&models.BlockCreate{Label: "tasks", Value: "alpha tasks"}); err != nil {
		t.Fatalf("Create() in alpha error = %v", err)
	}

	// Same label in a different scope is not a duplicate
	if _, err := second.Create(&models.BlockCreate{Label: "tasks", Value: "beta tasks"}); err != nil {
		t.Fatalf("Create() in beta error = %v", err)
	}

	block, err := second.GetByLabel("tasks")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if block.Value != "beta tasks" {
		t.Errorf("Value = %q, want scope-local %q", block.Value, "beta tasks")
	}

	n, err := first.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
