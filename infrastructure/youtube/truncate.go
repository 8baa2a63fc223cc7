package youtube

import "strings"

// TruncateDescription caps s at max runes. Longer text is cut back to the
// last space inside the cap (when there is one past the first rune) and
// marked with ellipsis.
func TruncateDescription(s string, max int, ellipsis string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + ellipsis
}
