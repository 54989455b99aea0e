package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendCopies(t *testing.T) {
	base := New("A").Append("B")
	left := base.Append("C")
	right := base.Append("D")

	assert.Equal(t, []string{"A", "B"}, base.IDs())
	assert.Equal(t, []string{"A", "B", "C"}, left.IDs())
	assert.Equal(t, []string{"A", "B", "D"}, right.IDs())

	// Appending to a path whose backing array has spare capacity must
	// still not leak into siblings.
	if &left.ids[0] == &right.ids[0] {
		t.Fatal("sibling paths share a backing array")
	}
}

func TestIDsReturnsCopy(t *testing.T) {
	p := FromIDs("A", "B")
	ids := p.IDs()
	ids[0] = "Z"
	assert.Equal(t, "[A B]", p.String())
}

func TestEmptyPath(t *testing.T) {
	var p Path
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "", p.Last())
	assert.Nil(t, p.IDs())
	assert.Equal(t, 1, p.Append("A").Len())
}
