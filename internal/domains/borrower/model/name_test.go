package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Ana", NormalizeName("  Ana\t"))
	assert.Equal(t, "ana", NormalizeName("ana"))
	assert.Equal(t, "Ana Maria", NormalizeName(" Ana Maria "))
	assert.Empty(t, NormalizeName("   "))
}

func TestNormalizeClassification(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"absent", nil, nil},
		{"blank", strPtr("  "), nil},
		{"trimmed", strPtr(" C1 "), strPtr("C1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeClassification(tt.in))
		})
	}
}
