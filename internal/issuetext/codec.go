// Package issuetext maps a negotiable-issue list to and from its
// editable markdown projection: a sequence of blocks, each introduced
// by a heading line carrying only the issue name, followed by free-text
// description lines until the next heading.
//
// The projection carries only names and descriptions. The boundary
// fields and priority on an Issue are hand-entered judgments the
// generator never controls, so Decode resolves each block back to a
// previous issue (by name, then by position) and carries those fields
// forward instead of minting a fresh record every time the wording
// changes.
package issuetext

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"parley/internal/casefile"
)

// Codec converts between Issue lists and the markdown projection.
type Codec struct {
	newID func() string
}

// Option customizes a Codec.
type Option func(*Codec)

// WithIDFactory overrides the id generator for freshly minted issues
// (primarily for tests).
func WithIDFactory(fn func() string) Option {
	return func(c *Codec) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New builds a codec. Fresh issue ids default to random UUIDs.
func New(opts ...Option) *Codec {
	c := &Codec{newID: uuid.NewString}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type block struct {
	name string
	desc string
}

// Decode parses text into issues, resolving each block's identity
// against prev. Resolution per block, in order: first unconsumed
// previous issue with the exact (case-sensitive) same name, else the
// previous issue at the same position if that slot exists and is
// unconsumed, else a freshly minted id. Resolved blocks carry forward
// the previous issue's boundary fields and priority; name and
// description always take the decoded value.
//
// A block with an empty name gets the placeholder name "Issue {i+1}"
// rather than being discarded, so later blocks keep their positions.
// Text with no heading at all decodes as a single unnamed block; the
// user never loses typed text to a parse failure.
func (c *Codec) Decode(text string, prev []casefile.Issue) []casefile.Issue {
	blocks := splitBlocks(text)
	if len(blocks) == 0 {
		return nil
	}

	consumed := make([]bool, len(prev))
	issues := make([]casefile.Issue, 0, len(blocks))
	maxPriority := -1
	var unresolved []int

	for i, b := range blocks {
		name := b.name
		if name == "" {
			name = fmt.Sprintf("Issue %d", i+1)
		}
		match := -1
		for j := range prev {
			if !consumed[j] && prev[j].Name == name {
				match = j
				break
			}
		}
		if match < 0 && i < len(prev) && !consumed[i] {
			match = i
		}
		issue := casefile.Issue{Name: name, Description: b.desc}
		if match >= 0 {
			consumed[match] = true
			issue.ID = prev[match].ID
			issue.RedlineA = prev[match].RedlineA
			issue.BottomlineA = prev[match].BottomlineA
			issue.RedlineB = prev[match].RedlineB
			issue.BottomlineB = prev[match].BottomlineB
			issue.Priority = prev[match].Priority
			if issue.Priority > maxPriority {
				maxPriority = issue.Priority
			}
		} else {
			issue.ID = c.newID()
			unresolved = append(unresolved, i)
		}
		issues = append(issues, issue)
	}

	// Fresh issues take priorities after the highest carried-forward
	// one, in block order, keeping the total order strict.
	for _, i := range unresolved {
		maxPriority++
		issues[i].Priority = maxPriority
	}
	return issues
}

// Encode renders issues as the markdown projection. It is the left
// inverse of Decode restricted to names and descriptions, modulo one
// trailing-whitespace normalization per block.
func (c *Codec) Encode(issues []casefile.Issue) string {
	var b strings.Builder
	for i, is := range issues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## ")
		b.WriteString(is.Name)
		b.WriteString("\n")
		if is.Description != "" {
			b.WriteString(is.Description)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// splitBlocks segments text at heading lines. A heading is a line
// starting with 1-6 '#' characters followed by a space (or nothing);
// the rest of the line is the issue name. Blank lines inside a
// description survive as paragraph breaks; leading and trailing blank
// space of each description is trimmed.
func splitBlocks(text string) []block {
	lines := strings.Split(text, "\n")
	var blocks []block
	current := -1
	var body []string

	flush := func() {
		if current >= 0 {
			blocks[current].desc = trimBody(body)
		}
		body = nil
	}

	for _, line := range lines {
		if name, ok := headingName(line); ok {
			flush()
			blocks = append(blocks, block{name: name})
			current = len(blocks) - 1
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(blocks) == 0 {
		// No headings: keep the whole input as one unnamed block
		// instead of failing the decode.
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []block{{desc: trimBody(lines)}}
	}
	return blocks
}

func headingName(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	hashes := 0
	for hashes < len(line) && line[hashes] == '#' {
		hashes++
	}
	if hashes > 6 {
		return "", false
	}
	rest := line[hashes:]
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "\t") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func trimBody(lines []string) string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.TrimRight(strings.Join(lines[start:end], "\n"), " \t")
}
