package prerequisites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFindsPresentTool(t *testing.T) {
	t.Parallel()

	// sh is present on every platform these tests run on.
	results := Check([]Tool{{Name: "sh", Required: true}})

	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestCheckReportsMissingRequiredTool(t *testing.T) {
	t.Parallel()

	results := Check([]Tool{{
		Name:        "definitely-not-a-real-binary-xyz",
		Required:    true,
		Description: "placeholder",
	}})

	assert.True(t, results.HasErrors())
	err := results.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-xyz")
}

func TestCheckMissingOptionalToolIsNotAnError(t *testing.T) {
	t.Parallel()

	results := Check([]Tool{{Name: "definitely-not-a-real-binary-xyz", Required: false}})

	assert.Len(t, results.Missing, 1)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestHostToolsUsesConfiguredHelper(t *testing.T) {
	t.Parallel()

	tools := HostTools("gateway-register")

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "gateway-register")
	assert.Contains(t, names, "sysctl")
}
