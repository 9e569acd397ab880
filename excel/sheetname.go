package excel

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	// MaxSheetNameLength is the longest worksheet name Excel accepts, counted
	// in UTF-16 code units (an emoji takes two).
	MaxSheetNameLength = 31

	// FallbackSheetName replaces labels that are empty after sanitizing.
	FallbackSheetName = "Sheet"
)

// illegalSheetChars are the characters Excel refuses in a worksheet name.
const illegalSheetChars = `\/*?[]:`

// NameRegistry records the worksheet names allocated during one export run.
// Lookups are case-insensitive, the way Excel compares sheet names.
type NameRegistry struct {
	used     map[string]string // lookup key → name as allocated
	fallback string
}

// NewNameRegistry creates an empty registry using FallbackSheetName.
func NewNameRegistry() *NameRegistry {
	return NewNameRegistryWithFallback(FallbackSheetName)
}

// NewNameRegistryWithFallback creates an empty registry that substitutes
// fallback for unusable labels. A fallback that is itself unusable reverts to
// FallbackSheetName.
func NewNameRegistryWithFallback(fallback string) *NameRegistry {
	fallback = truncateUnits(SanitizeSheetName(fallback), MaxSheetNameLength)
	if fallback == "" {
		fallback = FallbackSheetName
	}
	return &NameRegistry{used: make(map[string]string), fallback: fallback}
}

// Allocate returns a valid worksheet name for rawLabel that no earlier call on
// this registry has returned, and records it. A colliding label is suffixed
// using the casing of the name it collides with.
//
//	"Plumbing", "plumbing", "Electrical" → "Plumbing", "Plumbing (2)", "Electrical"
func (r *NameRegistry) Allocate(rawLabel string) string {
	if r.used == nil {
		r.used = make(map[string]string)
	}
	if r.fallback == "" {
		r.fallback = FallbackSheetName
	}

	base := truncateUnits(SanitizeSheetName(rawLabel), MaxSheetNameLength)
	if base == "" {
		base = r.fallback
	}

	if prior, ok := r.used[nameKey(base)]; ok {
		base = prior
	}

	name := base
	for n := 2; r.Has(name); n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		name = truncateUnits(base, MaxSheetNameLength-NameLength(suffix)) + suffix
	}

	r.used[nameKey(name)] = name
	return name
}

// Allocate is the function form of (*NameRegistry).Allocate.
func Allocate(rawLabel string, registry *NameRegistry) string {
	return registry.Allocate(rawLabel)
}

// Has reports whether name, compared case-insensitively, is already allocated.
func (r *NameRegistry) Has(name string) bool {
	_, ok := r.used[nameKey(name)]
	return ok
}

// Len returns the number of allocated names.
func (r *NameRegistry) Len() int {
	return len(r.used)
}

// SanitizeSheetName strips the characters Excel forbids in sheet names and
// trims surrounding whitespace and apostrophes. It does not truncate.
func SanitizeSheetName(label string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalSheetChars, r) {
			return -1
		}
		return r
	}, label)

	// Excel (and excelize) reject names that start or end with an apostrophe.
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(cleaned), "'"))
}

func nameKey(name string) string {
	return strings.ToLower(name)
}

// NameLength returns the length of name the way Excel measures it, in
// UTF-16 code units.
func NameLength(name string) int {
	n := 0
	for _, r := range name {
		n += unitLen(r)
	}
	return n
}

func unitLen(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	return 1
}

// truncateUnits cuts s to at most n UTF-16 code units without splitting a
// surrogate pair.
func truncateUnits(s string, n int) string {
	if NameLength(s) <= n {
		return s
	}

	used := 0
	end := 0
	for i, r := range s {
		l := unitLen(r)
		if used+l > n {
			break
		}
		used += l
		end = i + len(string(r))
	}

	// Cutting can expose whitespace or an apostrophe at the new end.
	return strings.TrimRight(s[:end], " \t'")
}
