package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Authored content arrives with machine identifiers where display names are
// missing: "blood_pressure", "heart-rate", "ambulanceEta". Label turns those
// into readable English titles for badges and reports.

var (
	titleCaser = cases.Title(language.English)
	camelSplit = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	separators = regexp.MustCompile(`[_\-./]+`)
)

// Abbreviations that should stay fully uppercased in labels.
var uppercaseWords = map[string]string{
	"eta": "ETA",
	"bpm": "BPM",
	"ecg": "ECG",
	"cpr": "CPR",
	"iv":  "IV",
	"id":  "ID",
}

// Label converts an identifier to a display title. Snake, kebab, dotted and
// camel case all split into words; known medical abbreviations uppercase.
func Label(id string) string {
	s := strings.TrimSpace(id)
	if s == "" {
		return ""
	}
	s = camelSplit.ReplaceAllString(s, "$1 $2")
	s = separators.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		if up, ok := uppercaseWords[strings.ToLower(w)]; ok {
			words[i] = up
			continue
		}
		words[i] = titleCaser.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// Truncate shortens s to max runes, appending an ellipsis when it cuts.
// Narrow UI panels use this for long scenario names.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}
