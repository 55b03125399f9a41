package service

import "strings"

// normalizeName trims a category name and collapses inner runs of whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
