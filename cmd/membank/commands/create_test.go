// ABOUTME: Tests for the create and list commands
// ABOUTME: Runs the real CLI against an isolated temporary database

package commands

import (
	"strings"
	"testing"
)

func TestCreateAndList(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "create", "tasks", "--description", "Open tasks", "--limit", "100")
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out, `Created memory block "tasks"`) {
		t.Errorf("create output = %q, want confirmation", out)
	}

	out, err = execute(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "tasks") {
		t.Errorf("list output missing created block: %q", out)
	}
	// Default seed blocks exist alongside user-created ones
	if !strings.Contains(out, "persona") || !strings.Contains(out, "human") {
		t.Errorf("list output missing seeded blocks: %q", out)
	}
}

func TestCreateDuplicateLabelFails(t *testing.T) {
	useTempStore(t)

	if _, err := execute(t, "create", "tasks"); err != nil {
		t.Fatalf("create error = %v", err)
	}

	if _, err := execute(t, "create", "tasks"); err == nil {
		t.Error("second create with same label should fail")
	}
}

func TestCreateReadOnlyRejectsDelete(t *testing.T) {
	useTempStore(t)

	if _, err := execute(t, "create", "audit", "--read-only", "--value", "immutable"); err != nil {
		t.Fatalf("create error = %v", err)
	}

	if _, err := execute(t, "delete", "audit"); err == nil {
		t.Error("deleting a read-only block should fail")
	}

	out, err := execute(t, "show", "audit")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "immutable") {
		t.Errorf("show output = %q, want original value intact", out)
	}
}
