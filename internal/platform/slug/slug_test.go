package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mapty/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "running-on-april-14", slug.Make("Running on April 14"))
	assert.Equal(t, "cycling-on-may-2", slug.Make("  Cycling on May 2 🚴 "))
	assert.Equal(t, "workout", slug.Make("🏃‍♂️"))

	long := slug.Make(strings.Repeat("tempo run ", 10))
	assert.LessOrEqual(t, len(long), 48)
	assert.False(t, strings.HasSuffix(long, "-"))
	assert.True(t, strings.HasPrefix(long, "tempo-run-tempo"))
}
