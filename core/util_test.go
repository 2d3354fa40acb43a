package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Alice", CleanString("  Alice\t\n"))
	assert.Equal(t, "", CleanString("   "))
}
