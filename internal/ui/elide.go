package ui

// elideLeft shortens s to at most n runes by replacing its head with "...",
// keeping the end of a path visible.
func elideLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[len(r)-max(n, 0):])
	}
	return "..." + string(r[len(r)-(n-3):])
}
