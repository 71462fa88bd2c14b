package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCmd(t *testing.T) {
	c := NewVersionCmd()

	assert.Equal(t, "version", c.Use)
	assert.NotEmpty(t, c.Short)
	assert.NotEmpty(t, c.Long)
}

func TestVersionCmd_Execute(t *testing.T) {
	// Plain output goes to os.Stdout; only check it runs.
	_, _, err := execute(t, "version")
	assert.NoError(t, err)
}

func TestVersionCmd_JSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")
}

func TestVersionCmd_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "version", "-o", "xml")
	assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
}
