package storage

import "strings"

func normalizeText(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	// Collapse any repeated whitespace (spaces/tabs/newlines) to a single space.
	return strings.Join(strings.Fields(trimmed), " ")
}

// normalizeAccountName cleans a display name coming from CSV or user
// input. Imports key accounts by name, so "My  Fund" and "My Fund"
// must resolve to the same row.
func normalizeAccountName(raw, fallback string) string {
	if name := normalizeText(raw); name != "" {
		return name
	}
	return normalizeText(fallback)
}
