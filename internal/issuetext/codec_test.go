package issuetext

import (
	"fmt"
	"reflect"
	"testing"

	"parley/internal/casefile"
)

func newTestCodec() *Codec {
	n := 0
	return New(WithIDFactory(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
}

func TestDecodePreservesBoundariesOnRename(t *testing.T) {
	prev := []casefile.Issue{{
		ID:          "i1",
		Name:        "Access",
		Description: "Old wording",
		RedlineA:    "no overnight closures",
		BottomlineA: "weekend access",
		RedlineB:    "no unrestricted use",
		BottomlineB: "scheduled slots",
		Priority:    0,
	}}
	c := newTestCodec()
	got := c.Decode("## Access Route\nRevised wording", prev)
	if len(got) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(got))
	}
	is := got[0]
	if is.ID != "i1" {
		t.Fatalf("positional match should keep id i1, got %s", is.ID)
	}
	if is.Name != "Access Route" || is.Description != "Revised wording" {
		t.Fatalf("name/description must take the decoded value: %+v", is)
	}
	if is.RedlineA != "no overnight closures" || is.BottomlineB != "scheduled slots" {
		t.Fatalf("boundary fields must survive regeneration: %+v", is)
	}
	if is.Priority != 0 {
		t.Fatalf("priority must survive regeneration, got %d", is.Priority)
	}
}

func TestRoundTrip(t *testing.T) {
	issues := []casefile.Issue{
		{ID: "i1", Name: "Access", Description: "Who may use the road.", RedlineA: "ra", Priority: 0},
		{ID: "i2", Name: "Cost Sharing", Description: "Split of maintenance.\n\nIncludes plowing.", BottomlineB: "bb", Priority: 1},
		{ID: "i3", Name: "Term", Description: "", Priority: 2},
	}
	c := newTestCodec()
	text := c.Encode(issues)
	got := c.Decode(text, issues)
	if !reflect.DeepEqual(got, issues) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, issues)
	}
	// Encoding the decode output reproduces the text.
	if again := c.Encode(got); again != text {
		t.Fatalf("encode not stable:\n got %q\nwant %q", again, text)
	}
}

func TestDecodeIdentityPreservationOnPartialEdit(t *testing.T) {
	prev := []casefile.Issue{
		{ID: "i1", Name: "Access", Description: "a", RedlineA: "r1", Priority: 0},
		{ID: "i2", Name: "Cost", Description: "b", RedlineA: "r2", Priority: 1},
		{ID: "i3", Name: "Term", Description: "c", RedlineA: "r3", Priority: 2},
	}
	c := newTestCodec()
	text := "## Access\na\n\n## Cost\nchanged description\n\n## Term\nc"
	got := c.Decode(text, prev)
	if len(got) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(got))
	}
	for i, want := range []string{"i1", "i2", "i3"} {
		if got[i].ID != want {
			t.Fatalf("issue %d: expected id %s, got %s", i, want, got[i].ID)
		}
		if got[i].RedlineA != prev[i].RedlineA || got[i].Priority != prev[i].Priority {
			t.Fatalf("issue %d: boundaries/priority must be unchanged: %+v", i, got[i])
		}
	}
	if got[1].Description != "changed description" {
		t.Fatalf("edited description lost: %q", got[1].Description)
	}
}

func TestDecodeNewBlockMintsIDAndNextPriority(t *testing.T) {
	prev := []casefile.Issue{
		{ID: "i1", Name: "Access", Priority: 0},
		{ID: "i2", Name: "Cost", Priority: 4},
	}
	c := newTestCodec()
	got := c.Decode("## Access\n\n## Cost\n\n## Insurance\nNew topic", prev)
	if len(got) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(got))
	}
	if got[2].ID != "new-1" {
		t.Fatalf("unresolved block should mint a fresh id, got %s", got[2].ID)
	}
	if got[2].Priority != 5 {
		t.Fatalf("fresh issue priority should continue after the highest carried one, got %d", got[2].Priority)
	}
}

func TestDecodeDuplicateNamesFirstUnconsumedWins(t *testing.T) {
	prev := []casefile.Issue{
		{ID: "i1", Name: "Access", RedlineA: "first", Priority: 0},
		{ID: "i2", Name: "Access", RedlineA: "second", Priority: 1},
	}
	c := newTestCodec()
	got := c.Decode("## Access\none\n\n## Access\ntwo", prev)
	if got[0].ID != "i1" || got[1].ID != "i2" {
		t.Fatalf("duplicate names should resolve in first-unconsumed order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].RedlineA != "first" || got[1].RedlineA != "second" {
		t.Fatalf("boundary carry-forward crossed between duplicates: %+v", got)
	}
}

func TestDecodeEmptyNameGetsPlaceholderWithoutShiftingLaterBlocks(t *testing.T) {
	prev := []casefile.Issue{
		{ID: "i1", Name: "Access", Priority: 0},
		{ID: "i2", Name: "Cost", Priority: 1},
		{ID: "i3", Name: "Term", Priority: 2},
	}
	c := newTestCodec()
	got := c.Decode("## Access\na\n\n##\nno name here\n\n## Term\nc", prev)
	if len(got) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(got))
	}
	if got[1].Name != "Issue 2" {
		t.Fatalf("empty-name block should take a placeholder, got %q", got[1].Name)
	}
	if got[1].ID != "i2" {
		t.Fatalf("placeholder block should still match by position, got %s", got[1].ID)
	}
	if got[2].ID != "i3" {
		t.Fatalf("later block identity shifted, got %s", got[2].ID)
	}
}

func TestDecodeNoHeadingsKeepsTypedText(t *testing.T) {
	c := newTestCodec()
	got := c.Decode("just some pasted notes\nwith a second line", nil)
	if len(got) != 1 {
		t.Fatalf("expected single fallback block, got %d", len(got))
	}
	if got[0].Name != "Issue 1" {
		t.Fatalf("fallback block should take the placeholder name, got %q", got[0].Name)
	}
	if got[0].Description != "just some pasted notes\nwith a second line" {
		t.Fatalf("typed text lost: %q", got[0].Description)
	}
	if got[0].Priority != 0 {
		t.Fatalf("first fresh issue should take priority 0, got %d", got[0].Priority)
	}
}

func TestDecodeBlankTextYieldsNothing(t *testing.T) {
	c := newTestCodec()
	if got := c.Decode("  \n\n", nil); got != nil {
		t.Fatalf("blank input should decode to no issues, got %+v", got)
	}
}

func TestDecodePreservesParagraphBreaks(t *testing.T) {
	c := newTestCodec()
	got := c.Decode("## Access\nfirst paragraph\n\nsecond paragraph\n", nil)
	if got[0].Description != "first paragraph\n\nsecond paragraph" {
		t.Fatalf("paragraph break lost: %q", got[0].Description)
	}
}

func TestDecodeAdjacentHeadings(t *testing.T) {
	c := newTestCodec()
	got := c.Decode("## Access\n## Cost\nbody", nil)
	if len(got) != 2 {
		t.Fatalf("adjacent heading must terminate the previous block, got %d blocks", len(got))
	}
	if got[0].Description != "" || got[1].Description != "body" {
		t.Fatalf("unexpected descriptions: %+v", got)
	}
}
