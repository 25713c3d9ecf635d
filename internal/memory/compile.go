// ABOUTME: Deterministic rendering of memory blocks into the prompt context segment
// ABOUTME: The output shape is a wire format consumed by the prompt assembler
package memory

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/membank/membank/internal/models"
)

// CompileOptions controls rendering. LineNumbers is set by the caller for
// model families that edit by line reference; this package only honors the
// flag, it never decides it.
type CompileOptions struct {
	LineNumbers bool
}

// CompiledBlock is the structured counterpart of one rendered block, for
// callers that want to inspect memory without parsing the text format.
type CompiledBlock struct {
	Label       string                `json:"label"`
	Description string                `json:"description,omitempty"`
	Value       string                `json:"value"`
	Metadata    CompiledBlockMetadata `json:"metadata"`
}

// CompiledBlockMetadata mirrors the metadata section of the text format
type CompiledBlockMetadata struct {
	CharsCurrent int  `json:"chars_current"`
	CharsLimit   int  `json:"chars_limit"`
	ReadOnly     bool `json:"read_only"`
}

const (
	openingMarker = "<memory_blocks>"
	closingMarker = "</memory_blocks>"

	lineNumbersWarning = "<line_numbers_warning>\n" +
		"Line numbers appear as \"N→ \" prefixes. Preserve them verbatim when editing.\n" +
		"</line_numbers_warning>\n"
)

// Compile renders blocks, in the given order, into a single text segment.
// Hidden blocks produce no output at all. The transform is pure: identical
// input yields byte-identical output, and the input is never mutated.
func Compile(blocks []*models.MemoryBlock, opts CompileOptions) string {
	if len(blocks) == 0 {
		return ""
	}

	var sections []string
	for _, block := range blocks {
		if block.Hidden {
			continue
		}
		sections = append(sections, renderBlock(block, opts))
	}

	var sb strings.Builder
	sb.WriteString(openingMarker)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(sections, "\n\n"))
	sb.WriteString("\n\n")
	sb.WriteString(closingMarker)
	return sb.String()
}

// renderBlock emits one block section: tag, description, metadata, value
func renderBlock(block *models.MemoryBlock, opts CompileOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<%s>\n", block.Label)

	sb.WriteString("<description>\n")
	sb.WriteString(block.Description)
	sb.WriteString("\n</description>\n")

	sb.WriteString("<metadata>\n")
	if block.ReadOnly {
		sb.WriteString("- read_only=true\n")
	}
	fmt.Fprintf(&sb, "- chars_current=%d\n", utf8.RuneCountInString(block.Value))
	fmt.Fprintf(&sb, "- chars_limit=%d\n", block.CharLimit)
	sb.WriteString("</metadata>\n")

	if opts.LineNumbers {
		sb.WriteString(lineNumbersWarning)
	}

	sb.WriteString("<value>\n")
	if opts.LineNumbers {
		sb.WriteString(numberLines(block.Value))
	} else {
		sb.WriteString(block.Value)
	}
	sb.WriteString("\n</value>\n")

	fmt.Fprintf(&sb, "</%s>", block.Label)
	return sb.String()
}

// numberLines prefixes each line with its 1-based number and an arrow glyph.
// Empty lines keep the prefix with empty content after it.
func numberLines(value string) string {
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%d→ %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}

// CompileBlocks returns the structured view of the same non-hidden blocks the
// text compiler would render, in the same order.
func CompileBlocks(blocks []*models.MemoryBlock) []CompiledBlock {
	compiled := make([]CompiledBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.Hidden {
			continue
		}
		compiled = append(compiled, CompiledBlock{
			Label:       block.Label,
			Description: block.Description,
			Value:       block.Value,
			Metadata: CompiledBlockMetadata{
				CharsCurrent: utf8.RuneCountInString(block.Value),
				CharsLimit:   block.CharLimit,
				ReadOnly:     block.ReadOnly,
			},
		})
	}
	return compiled
}

// EstimateTokens produces a coarse token-budget estimate for the compiled
// segment: ceil(chars / 4). It renders through Compile so the estimate always
// matches what is actually injected.
func EstimateTokens(blocks []*models.MemoryBlock, opts CompileOptions) int {
	compiled := Compile(blocks, opts)
	chars := utf8.RuneCountInString(compiled)
	return (chars + 3) / 4
}
