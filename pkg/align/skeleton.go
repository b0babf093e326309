package align

import "strings"

// Placeholder selects what a new layer is filled with.
type Placeholder string

const (
	// PlaceholderCopy fills the layer with the reference keys themselves.
	PlaceholderCopy Placeholder = "copy"
	// PlaceholderPassthrough falls through to the layer below.
	PlaceholderPassthrough Placeholder = "_"
	// PlaceholderBlocked disables the key.
	PlaceholderBlocked Placeholder = "XX"
)

// Placeholders lists the built-in choices with a short description.
var Placeholders = []struct {
	Value       Placeholder
	Description string
}{
	{PlaceholderCopy, "Copy keys from (defsrc)"},
	{PlaceholderPassthrough, "Passthrough"},
	{PlaceholderBlocked, "Blocked"},
}

// Skeleton returns one line with an item per reference token, indented to
// the column of the first one. Any placeholder other than [PlaceholderCopy]
// is repeated as is.
func Skeleton(ref []Token, p Placeholder) string {
	if len(ref) == 0 {
		return ""
	}
	items := make([]string, len(ref))
	for i, t := range ref {
		if p == PlaceholderCopy {
			items[i] = t.Contents
		} else {
			items[i] = string(p)
		}
	}
	return strings.Repeat(" ", ref[0].Column) + strings.Join(items, " ")
}
