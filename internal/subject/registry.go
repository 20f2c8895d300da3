package subject

import "strings"

// subjects is the fixed set of course subjects. Order is stable and used for display.
var subjects = []string{
	"History",
	"Political Science",
	"Hindi",
	"English",
	"IT",
	"PCA",
}

// Names returns the subjects in display order.
func Names() []string {
	out := make([]string, len(subjects))
	copy(out, subjects)
	return out
}

// IsValid reports whether name is a registered subject (exact match).
func IsValid(name string) bool {
	for _, s := range subjects {
		if s == name {
			return true
		}
	}
	return false
}

// Slug returns the folder name backing a subject: lowercased, spaces to underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
