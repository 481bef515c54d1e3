package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_SortsByCreation(t *testing.T) {
	a := New()
	time.Sleep(2 * time.Millisecond)
	b := New()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	got := Time(New())
	assert.True(t, got.After(before))
	assert.True(t, Time("not-a-ulid").IsZero())
}
