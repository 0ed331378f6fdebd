package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// Bare power-to-weight values outside this range are treated as noise.
const (
	MinWkg = 0.5
	MaxWkg = 7.0
)

// Name length limits, in characters.
const (
	minNameLen = 2
	maxNameLen = 30
)

var (
	deltaPattern       = regexp.MustCompile(`[+-]\d{1,2}:\d{2}`)
	kmPattern          = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*km\b`)
	explicitWkgPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*w/kg`)
	bareWkgPattern     = regexp.MustCompile(`^\d\.\d$`)

	initialDotPattern    = regexp.MustCompile(`^[A-Za-z]\.\s?[A-Za-z]`)
	singleInitialPattern = regexp.MustCompile(`^[A-Za-z]\.$`)
	capitalizedPattern   = regexp.MustCompile(`^\p{Lu}\p{Ll}`)
)

// ParseLeaderboard turns the recognizer's multi-line output into entries.
// A line that looks like a rider name is paired with the following line,
// which must carry at least one of delta, km and w/kg; unpaired names are
// dropped. An entry without a delta is the viewing rider's own row.
func ParseLeaderboard(text string) []telemetry.LeaderboardEntry {
	lines := lo.Filter(
		lo.Map(strings.Split(text, "\n"), func(l string, _ int) string { return strings.TrimSpace(l) }),
		func(l string, _ int) bool { return l != "" },
	)

	var entries []telemetry.LeaderboardEntry
	for i := 0; i < len(lines)-1; i++ {
		if !IsLikelyName(lines[i]) {
			continue
		}
		entry, ok := parseDataLine(lines[i+1])
		if !ok {
			continue
		}
		entry.Name = lines[i]
		entries = append(entries, entry)
		i++
	}
	return entries
}

// parseDataLine reads delta, km and w/kg from a data line. It reports false
// when none of them is present.
func parseDataLine(line string) (telemetry.LeaderboardEntry, bool) {
	var e telemetry.LeaderboardEntry
	rest := line

	if m := deltaPattern.FindString(rest); m != "" {
		e.Delta = telemetry.Ptr(m)
		rest = strings.Replace(rest, m, " ", 1)
	}
	if m := kmPattern.FindStringSubmatch(rest); m != nil {
		e.Km = parseFloat(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
	}
	if m := explicitWkgPattern.FindStringSubmatch(rest); m != nil {
		e.Wkg = parseFloat(m[1])
	} else {
		e.Wkg = bareWkg(rest)
	}

	if e.Delta == nil && e.Km == nil && e.Wkg == nil {
		return e, false
	}
	e.Current = e.Delta == nil
	return e, true
}

// bareWkg finds the first one-decimal token in [MinWkg, MaxWkg].
func bareWkg(s string) *float64 {
	for _, tok := range strings.Fields(s) {
		if v, ok := ParseWkg(tok); ok {
			return &v
		}
	}
	return nil
}

// ParseWkg parses a bare "X.X" power-to-weight token, accepting only values
// in [MinWkg, MaxWkg].
func ParseWkg(tok string) (float64, bool) {
	if !bareWkgPattern.MatchString(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v < MinWkg || v > MaxWkg {
		return 0, false
	}
	return v, true
}

// IsLikelyName reports whether a recognized line looks like a rider name
// rather than a data line or noise.
func IsLikelyName(s string) bool {
	t := strings.TrimSpace(s)
	if n := utf8.RuneCountInString(t); n < minNameLen || n > maxNameLen {
		return false
	}

	letters, digitCount := 0, 0
	for _, r := range t {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digitCount++
		}
	}
	if letters == 0 {
		return false
	}

	lower := strings.ToLower(t)
	if strings.Contains(lower, "km") || strings.Contains(lower, "w/kg") {
		return false
	}
	if strings.Contains(t, ":") && digitCount >= 3 {
		return false
	}

	switch {
	case initialDotPattern.MatchString(t),
		strings.Count(t, ".") >= 2,
		capitalizedPattern.MatchString(t),
		strings.ContainsAny(t, "()"),
		singleInitialPattern.MatchString(t):
		return true
	}
	return letters >= 2
}
