package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item code defaults
const (
	DefaultRootItemGroup  = "All Item Groups"
	DefaultFallbackPrefix = "ITEM"
	DefaultSequenceWidth  = 4
	DefaultSegmentLength  = 2

	// CodeSeparator joins the prefix and the sequence number
	CodeSeparator = "-"
)

// CodePolicy holds the tunables of item code generation.
type CodePolicy struct {
	// RootItemGroup is the sentinel group at the top of the tree; it never contributes to a prefix
	RootItemGroup string
	// FallbackPrefix is used when allocation is asked for an empty prefix
	FallbackPrefix string
	// SequenceWidth is the minimum zero-padded width of the number
	SequenceWidth int
	// SegmentLength is how many characters each group contributes to the prefix
	SegmentLength int
}

// DefaultCodePolicy returns the policy used when nothing is configured
func DefaultCodePolicy() CodePolicy {
	return CodePolicy{
		RootItemGroup:  DefaultRootItemGroup,
		FallbackPrefix: DefaultFallbackPrefix,
		SequenceWidth:  DefaultSequenceWidth,
		SegmentLength:  DefaultSegmentLength,
	}
}

// Normalize fills zero-valued fields with defaults
func (p CodePolicy) Normalize() CodePolicy {
	d := DefaultCodePolicy()
	if p.RootItemGroup == "" {
		p.RootItemGroup = d.RootItemGroup
	}
	if p.FallbackPrefix == "" {
		p.FallbackPrefix = d.FallbackPrefix
	}
	if p.SequenceWidth <= 0 {
		p.SequenceWidth = d.SequenceWidth
	}
	if p.SegmentLength <= 0 {
		p.SegmentLength = d.SegmentLength
	}
	return p
}

// IsRoot reports whether name is the root sentinel group
func (p CodePolicy) IsRoot(name string) bool {
	return name == p.RootItemGroup
}

// SegmentCode returns the local prefix segment of a single item group:
// the group name with spaces removed, truncated, then uppercased.
func (p CodePolicy) SegmentCode(groupName string) string {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' {
			return -1
		}
		return r
	}, groupName)

	runes := []rune(compact)
	if len(runes) > p.SegmentLength {
		runes = runes[:p.SegmentLength]
	}
	return cases.Upper(language.Und).String(string(runes))
}

// PrefixOrFallback substitutes the fallback prefix for an empty one
func (p CodePolicy) PrefixOrFallback(prefix string) string {
	if prefix == "" {
		return p.FallbackPrefix
	}
	return prefix
}

// Format renders prefix and sequence number as an item code.
// The width is a minimum: 10000 is rendered as is.
func (p CodePolicy) Format(prefix string, number int) string {
	return fmt.Sprintf("%s%s%0*d", prefix, CodeSeparator, p.SequenceWidth, number)
}

// NextCode returns the code with the smallest unused sequence number for prefix,
// given the codes currently in use.
func (p CodePolicy) NextCode(prefix string, existing []string) string {
	prefix = p.PrefixOrFallback(prefix)

	numbers := make([]int, 0, len(existing))
	for _, code := range existing {
		if n, ok := ParseSequence(code, prefix); ok {
			numbers = append(numbers, n)
		}
	}
	return p.Format(prefix, NextSequence(numbers))
}

// HasCodePrefix reports whether code belongs to the sequence of prefix
func HasCodePrefix(code, prefix string) bool {
	return code != "" && strings.HasPrefix(code, prefix+CodeSeparator)
}

// ParseSequence extracts the sequence number of code under prefix.
// It returns false when the code is outside the prefix or the suffix is not an integer.
func ParseSequence(code, prefix string) (int, bool) {
	if !HasCodePrefix(code, prefix) {
		return 0, false
	}
	suffix := strings.TrimFunc(strings.TrimPrefix(code, prefix+CodeSeparator), unicode.IsSpace)
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextSequence returns the smallest positive integer not present in used.
func NextSequence(used []int) int {
	sorted := make([]int, len(used))
	copy(sorted, used)
	sort.Ints(sorted)

	next := 1
	for _, n := range sorted {
		if n == next {
			next++
		} else if n > next {
			break
		}
	}
	return next
}
