// ABOUTME: Tests for the append, replace, history, and compile commands
// ABOUTME: Exercises the full edit cycle through the CLI against a temp database

package commands

import (
	"strings"
	"testing"
)

func TestAppendReplaceHistory(t *testing.T) {
	useTempStore(t)

	if _, err := execute(t, "create", "tasks", "--limit", "200"); err != nil {
		t.Fatalf("create error = %v", err)
	}

	if _, err := execute(t, "append", "tasks", "buy milk"); err != nil {
		t.Fatalf("append error = %v", err)
	}
	out, err := execute(t, "append", "tasks", "buy eggs")
	if err != nil {
		t.Fatalf("append error = %v", err)
	}
	if !strings.Contains(out, "version 3") {
		t.Errorf("append output = %q, want version 3", out)
	}

	out, err = execute(t, "show", "tasks")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "buy milk\nbuy eggs") {
		t.Errorf("show output = %q, want newline-joined appends", out)
	}

	if _, err := execute(t, "replace", "tasks", "buy oat milk", "--old", "buy milk"); err != nil {
		t.Fatalf("replace error = %v", err)
	}

	// User-driven edits are tagged in history
	out, err = execute(t, "history", "tasks")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "user") {
		t.Errorf("history output = %q, want user actor tag", out)
	}
	if !strings.Contains(out, "4") {
		t.Errorf("history output = %q, want version 4 present", out)
	}
}

func TestReplaceMissingOldContentFails(t *testing.T) {
	useTempStore(t)

	if _, err := execute(t, "create", "project", "--value", "some value"); err != nil {
		t.Fatalf("create error = %v", err)
	}

	if _, err := execute(t, "replace", "project", "new", "--old", "absent text"); err == nil {
		t.Error("replace with absent old content should fail")
	}

	out, err := execute(t, "show", "project")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "some value") {
		t.Errorf("show output = %q, want value unchanged", out)
	}
}

func TestCompileCommand(t *testing.T) {
	useTempStore(t)

	if _, err := execute(t, "create", "tasks", "--value", "alpha\nbeta"); err != nil {
		t.Fatalf("create error = %v", err)
	}

	out, err := execute(t, "compile")
	if err != nil {
		t.Fatalf("compile error = %v", err)
	}
	if !strings.Contains(out, "<memory_blocks>") || !strings.Contains(out, "<tasks>") {
		t.Errorf("compile output = %q, want structural markers", out)
	}

	out, err = execute(t, "compile", "--line-numbers")
	if err != nil {
		t.Fatalf("compile --line-numbers error = %v", err)
	}
	if !strings.Contains(out, "1→ alpha") || !strings.Contains(out, "2→ beta") {
		t.Errorf("compile output = %q, want numbered lines", out)
	}
}
