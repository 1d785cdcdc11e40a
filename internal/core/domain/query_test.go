package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQuery(t *testing.T) {
	terms := []string{"annual", "report"}
	q := NewQuery(terms, "file:///home/user")

	assert.Equal(t, "annual report", q.Text)
	assert.Equal(t, "file:///home/user", q.Location)
	assert.False(t, q.IsEmpty())

	terms[0] = "changed"
	assert.Equal(t, []string{"annual", "report"}, q.Terms)
}

func TestQuery_IsEmpty(t *testing.T) {
	assert.True(t, NewQuery(nil, "").IsEmpty())
	assert.True(t, NewQuery([]string{"", " "}, "").IsEmpty())
	assert.False(t, NewQuery([]string{"x"}, "").IsEmpty())
}
