package casefile

import (
	"fmt"
	"strings"
)

// SamePartyName reports whether two names identify the same party.
// Party identity is by case-insensitive name.
func SamePartyName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NormalizeParties orders a party list into its canonical form: the two
// primary parties first, the user's own side at index 0, auxiliary
// parties after in their given order. It fails unless exactly two
// parties are marked primary.
func NormalizeParties(parties []Party) ([]Party, error) {
	var primaries, auxiliary []Party
	for _, p := range parties {
		if p.IsPrimary {
			primaries = append(primaries, p)
		} else {
			auxiliary = append(auxiliary, p)
		}
	}
	if len(primaries) != 2 {
		return nil, fmt.Errorf("casefile: expected exactly 2 primary parties, got %d", len(primaries))
	}
	if primaries[1].IsUserSide && !primaries[0].IsUserSide {
		primaries[0], primaries[1] = primaries[1], primaries[0]
	}
	// The pair is ordered, so the first primary is the user's side even
	// when the flag was never set upstream.
	primaries[0].IsUserSide = true
	primaries[1].IsUserSide = false
	out := make([]Party, 0, len(parties))
	out = append(out, primaries...)
	out = append(out, auxiliary...)
	return out, nil
}

// PrimaryPair returns the pair key for a normalized party list.
func PrimaryPair(parties []Party) (PairKey, bool) {
	if len(parties) < 2 || !parties[0].IsPrimary || !parties[1].IsPrimary {
		return "", false
	}
	return NewPairKey(parties[0].ID, parties[1].ID), true
}
