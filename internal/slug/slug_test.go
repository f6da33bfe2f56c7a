package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "deep-tissue-massage", Make("Deep Tissue Massage"))
	assert.Equal(t, "haircut", Make("  Haircut  "))
	assert.Equal(t, "a-b", Make("A \t B"))
	assert.Equal(t, "", Make("   "))
}

func TestMatchOne(t *testing.T) {
	names := []string{"Deep Tissue Massage", "Haircut", "deep tissue massage"}

	idx, ok, ambiguous := MatchOne(names, "haircut")
	assert.True(t, ok)
	assert.False(t, ambiguous)
	assert.Equal(t, 1, idx)

	// Two names slugify identically: ambiguous, never a silent pick.
	_, ok, ambiguous = MatchOne(names, "deep-tissue-massage")
	assert.False(t, ok)
	assert.True(t, ambiguous)

	_, ok, ambiguous = MatchOne(names, "manicure")
	assert.False(t, ok)
	assert.False(t, ambiguous)
}
