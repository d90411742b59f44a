package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "gatewayboot", cmd.Use)
	assert.Equal(t, "Bootstrap a host into a remote-access gateway node", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	assert.True(t, subcommands["provision"], "Expected subcommand provision not found")
	assert.True(t, subcommands["version"], "Expected subcommand version not found")
}
