package domain

import (
	"sort"
	"strings"
)

// TraitID identifies a trait within a collection as "type:value", lowercased
type TraitID string

// NewTraitID builds the canonical trait identifier
func NewTraitID(traitType, value string) TraitID {
	return TraitID(strings.ToLower(strings.TrimSpace(traitType)) + ":" + strings.ToLower(strings.TrimSpace(value)))
}

// Type returns the trait type part of the identifier
func (t TraitID) Type() string {
	typ, _, _ := strings.Cut(string(t), ":")
	return typ
}

// Value returns the trait value part of the identifier
func (t TraitID) Value() string {
	_, value, _ := strings.Cut(string(t), ":")
	return value
}

// String returns the string representation of the trait id
func (t TraitID) String() string {
	return string(t)
}

// Trait is a trait together with the number of tokens holding it
type Trait struct {
	ID    TraitID `json:"id"`
	Count int64   `json:"count"`
}

// FilterTraits drops every trait whose type is listed in ignoredTypes.
// The input slice is left untouched.
func FilterTraits(traits []TraitID, ignoredTypes []string) []TraitID {
	if len(ignoredTypes) == 0 {
		return append([]TraitID(nil), traits...)
	}

	ignored := make(map[string]struct{}, len(ignoredTypes))
	for _, t := range ignoredTypes {
		ignored[strings.ToLower(t)] = struct{}{}
	}

	filtered := make([]TraitID, 0, len(traits))
	for _, trait := range traits {
		if _, skip := ignored[trait.Type()]; skip {
			continue
		}
		filtered = append(filtered, trait)
	}
	return filtered
}

// SortTraitIDs sorts trait ids in place and removes duplicates
func SortTraitIDs(traits []TraitID) []TraitID {
	sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })
	out := traits[:0]
	for i, t := range traits {
		if i > 0 && t == traits[i-1] {
			continue
		}
		out = append(out, t)
	}
	return out
}
