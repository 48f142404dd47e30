// Package naming implements the canonical-name rules: lowercase everything
// and replace spaces with underscores. The same rule applies to directory
// names and to file stems; converted files always take the canonical
// container extension.
package naming

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/backmassage/samplenorm/internal/config"
)

var lower = cases.Lower(language.Und)

// Normalize returns the canonical form of a directory name or file stem:
// lowercased, with space characters replaced by underscores. No other
// characters are altered. Pure and total; Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	return strings.ReplaceAll(lower.String(name), " ", "_")
}

// Stem returns base without its extension.
func Stem(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the lowercased extension of base, including the leading dot.
func Ext(base string) string {
	return strings.ToLower(filepath.Ext(base))
}

// TargetName returns the final basename a processed file takes. Any acted-on
// file ends up with the canonical extension: rename-only is possible only
// for files already in the canonical container, and conversion always
// produces it.
func TargetName(base string) string {
	return Normalize(Stem(base)) + config.CanonicalExt
}
