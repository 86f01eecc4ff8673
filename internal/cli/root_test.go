package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "snapfork dev")
}

func TestRunCmd_FailsWithoutRequiredEnv(t *testing.T) {
	t.Setenv("APP", "")
	t.Setenv("FORK_FROM_APP", "")
	t.Setenv("HEROKU_API_KEY", "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"run"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required environment variables")
}

func TestAddonsCmd_FailsWithoutRequiredEnv(t *testing.T) {
	t.Setenv("APP", "")
	t.Setenv("FORK_FROM_APP", "")
	t.Setenv("HEROKU_API_KEY", "")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"addons"})
	require.Error(t, cmd.Execute())
}
