package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldSearch normalizes text for case-insensitive substring search. SQLite
// LOWER() only folds ASCII, so the folded key is stored alongside the row.
func FoldSearch(parts ...string) string {
	return cases.Fold().String(joinNonEmpty(" ", parts...))
}

// LikePattern builds a LIKE pattern matching q anywhere in a folded key.
// Use with ESCAPE '\'.
func LikePattern(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(FoldSearch(q)) + "%"
}
