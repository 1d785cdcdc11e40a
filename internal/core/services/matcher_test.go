package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringMatcher_Matches(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"single substring", "doc", "My Documents", true},
		{"all terms", "my doc", "My Documents", true},
		{"unordered terms", "doc my", "My Documents", true},
		{"no match", "xyz", "My Documents", false},
		{"one term missing", "my xyz", "My Documents", false},
		{"case insensitive", "DOCUMENTS", "my documents", true},
		{"inner substring", "cumen", "My Documents", true},
		{"composed query decomposed name", "caf\u00e9", "Cafe\u0301 Photos", true},
		{"decomposed query composed name", "cafe\u0301", "CAF\u00c9", true},
		{"accent required", "caf\u00e9", "Cafe Photos", false},
		{"extra whitespace", "  my \t doc  ", "My Documents", true},
		{"empty query", "", "My Documents", false},
		{"blank query", "   ", "My Documents", false},
		{"empty candidate", "doc", "", false},
		{"numbers", "2023 report", "2023 Report Draft", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStringMatcher(tt.query)
			assert.Equal(t, tt.want, m.Matches(tt.candidate))
		})
	}
}

func TestStringMatcher_Terms(t *testing.T) {
	m := NewStringMatcher("My  Doc\u00c9")
	assert.Equal(t, []string{"my", "doce\u0301"}, m.Terms())
}
