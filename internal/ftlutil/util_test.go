package ftlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Min(3, 7))
	assert.Equal(t, 7, Max(3, 7))
	assert.Equal(t, uint64(2), Min(uint64(2), uint64(9)))
}

func TestRoundupRounddown(t *testing.T) {
	assert.Equal(t, 8, Rounddown(11, 4))
	assert.Equal(t, 12, Roundup(11, 4))
	assert.Equal(t, 12, Roundup(12, 4), "already aligned stays put")
	assert.Equal(t, 0, Rounddown(0, 4))
}
