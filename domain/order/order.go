// Package order maintains contiguous zero-based position sequences over
// sibling sets. It is pure and storage-agnostic: every function takes an
// ordered list of (id, position) pairs plus an operation descriptor and
// returns the minimal set of position writes that restores contiguity while
// preserving the relative order of untouched members. Both the page tree and
// component lists reindex through this package.
package order

import (
	"fmt"
	"sort"
)

// Entry is one member of a sibling group.
type Entry struct {
	ID       string
	Position int
}

// Write is a position update the caller must persist.
type Write struct {
	ID       string
	Position int
}

// sorted returns the entries ordered by position.
func sorted(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// diff compares a final ordering against the original positions and emits a
// write for every member whose position changed.
func diff(final []Entry, original []Entry) []Write {
	prev := make(map[string]int, len(original))
	for _, e := range original {
		prev[e.ID] = e.Position
	}
	var writes []Write
	for i, e := range final {
		if prev[e.ID] != i {
			writes = append(writes, Write{ID: e.ID, Position: i})
		}
	}
	return writes
}

// InsertAt prepares the group for an insertion at pos. The returned position
// is pos clamped to [0, len(entries)]; the writes shift every existing member
// at or after it up by one. The new member is not part of the writes: the
// caller persists it at the returned position.
func InsertAt(entries []Entry, pos int) (int, []Write) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(entries) {
		pos = len(entries)
	}
	var writes []Write
	for _, e := range sorted(entries) {
		if e.Position >= pos {
			writes = append(writes, Write{ID: e.ID, Position: e.Position + 1})
		}
	}
	return pos, writes
}

// Remove closes the gap left by deleting id: every member after it shifts
// down by one. The removed member itself is not in the writes.
func Remove(entries []Entry, id string) ([]Write, error) {
	removedAt := -1
	for _, e := range entries {
		if e.ID == id {
			removedAt = e.Position
			break
		}
	}
	if removedAt < 0 {
		return nil, fmt.Errorf("member %s not in sibling group", id)
	}
	var writes []Write
	for _, e := range sorted(entries) {
		if e.ID != id && e.Position > removedAt {
			writes = append(writes, Write{ID: e.ID, Position: e.Position - 1})
		}
	}
	return writes, nil
}

// MoveTo repositions id so the final contiguous order has it at the requested
// logical position (clamped to the group bounds). Moving forward shifts the
// vacated range down by one; moving backward shifts it up by one. The writes
// cover only members whose position actually changes; a move to the current
// logical position yields none.
func MoveTo(entries []Entry, id string, to int) ([]Write, error) {
	current := sorted(entries)
	var rest []Entry
	found := false
	for _, e := range current {
		if e.ID == id {
			found = true
			continue
		}
		rest = append(rest, e)
	}
	if !found {
		return nil, fmt.Errorf("member %s not in sibling group", id)
	}

	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}

	final := make([]Entry, 0, len(current))
	final = append(final, rest[:to]...)
	final = append(final, Entry{ID: id})
	final = append(final, rest[to:]...)

	return diff(final, current), nil
}

// PlaceAfter repositions id immediately after targetID in the final order.
// It is a no-op (no writes) when id already directly follows the target.
func PlaceAfter(entries []Entry, id, targetID string) ([]Write, error) {
	return place(entries, id, targetID, true)
}

// PlaceBefore repositions id immediately before targetID in the final order.
// It is a no-op (no writes) when id already directly precedes the target.
func PlaceBefore(entries []Entry, id, targetID string) ([]Write, error) {
	return place(entries, id, targetID, false)
}

func place(entries []Entry, id, targetID string, after bool) ([]Write, error) {
	if id == targetID {
		return nil, fmt.Errorf("cannot move %s relative to itself", id)
	}
	current := sorted(entries)
	var rest []Entry
	foundID := false
	for _, e := range current {
		if e.ID == id {
			foundID = true
			continue
		}
		rest = append(rest, e)
	}
	if !foundID {
		return nil, fmt.Errorf("member %s not in sibling group", id)
	}
	targetIdx := -1
	for i, e := range rest {
		if e.ID == targetID {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("member %s not in sibling group", targetID)
	}

	to := targetIdx
	if after {
		to = targetIdx + 1
	}

	final := make([]Entry, 0, len(current))
	final = append(final, rest[:to]...)
	final = append(final, Entry{ID: id})
	final = append(final, rest[to:]...)

	return diff(final, current), nil
}

// Normalize restores contiguity over the current order without reordering,
// used after cascades that may have punched multiple gaps.
func Normalize(entries []Entry) []Write {
	return diff(sorted(entries), entries)
}

// Contiguous reports whether the group's positions form exactly {0..N-1}.
func Contiguous(entries []Entry) bool {
	seen := make([]bool, len(entries))
	for _, e := range entries {
		if e.Position < 0 || e.Position >= len(entries) || seen[e.Position] {
			return false
		}
		seen[e.Position] = true
	}
	return true
}
