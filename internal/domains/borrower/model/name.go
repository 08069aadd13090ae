package model

import "strings"

// NormalizeName trims surrounding whitespace. Names are otherwise compared
// exactly: "Ana" and "ana" are two borrowers.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeClassification trims the tag; blank means absent.
func NormalizeClassification(classification *string) *string {
	if classification == nil {
		return nil
	}
	v := strings.TrimSpace(*classification)
	if v == "" {
		return nil
	}
	return &v
}
