package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDiff_NoChanges(t *testing.T) {
	assert.Equal(t, "No changes detected.", RenderDiff(nil, nil, []string{"Function/default/hello"}))
}

func TestRenderDiff(t *testing.T) {
	got := RenderDiff(
		[]string{"Function/default/new"},
		[]ModifiedItem{{Name: "Function/default/hello", Diff: "spec.function\n  - old\n  + new\n"}},
		[]string{"Function/default/same"},
	)

	assert.Contains(t, got, "Function/default/new")
	assert.Contains(t, got, "Function/default/hello")
	assert.Contains(t, got, "    spec.function\n")
	assert.Contains(t, got, "Summary: 1 to deploy, 1 differ, 1 unchanged")
	assert.NotContains(t, got, "Function/default/same\n")
}

func TestIndentDiff(t *testing.T) {
	assert.Empty(t, IndentDiff("", "  "))
	assert.Equal(t, "  a\n  b\n", IndentDiff("a\n\nb", "  "))
}
