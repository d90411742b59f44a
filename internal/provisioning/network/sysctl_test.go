package network

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/provisioning"
	testhelpers "github.com/opsmode/gatewayboot/internal/testing"
)

func newTestContext(cfg *config.Config, runner *testhelpers.FakeRunner) *provisioning.Context {
	var sink strings.Builder
	return provisioning.NewContext(context.Background(), cfg, runner, provisioning.NewLogObserver(&sink))
}

func TestTune_WritesAndApplies(t *testing.T) {
	cfg := testhelpers.NewConfig(t.TempDir())
	runner := &testhelpers.FakeRunner{}
	ctx := newTestContext(cfg, runner)

	require.NoError(t, (&Tune{}).Provision(ctx))

	data, err := os.ReadFile(cfg.Paths.SysctlFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "net.core.rmem_max=160000000")
	assert.Contains(t, string(data), "net.core.netdev_max_backlog=2000")

	lines := runner.CommandLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "sysctl -p "+cfg.Paths.SysctlFile, lines[0])
}

func TestTune_ExistingFileIsLeftUntouched(t *testing.T) {
	cfg := testhelpers.NewConfig(t.TempDir())
	const stale = "# tuned by an earlier release\nnet.core.rmem_max=1\n"
	require.NoError(t, os.WriteFile(cfg.Paths.SysctlFile, []byte(stale), 0o644))

	runner := &testhelpers.FakeRunner{}
	ctx := newTestContext(cfg, runner)

	require.NoError(t, (&Tune{}).Provision(ctx))

	data, err := os.ReadFile(cfg.Paths.SysctlFile)
	require.NoError(t, err)
	assert.Equal(t, stale, string(data), "existing file must stay byte-for-byte unchanged")
	assert.Empty(t, runner.Calls, "settings must not be reapplied")
}

func TestTune_ApplyFailureDoesNotAbort(t *testing.T) {
	cfg := testhelpers.NewConfig(t.TempDir())
	runner := &testhelpers.FakeRunner{Script: testhelpers.FailAll()}
	ctx := newTestContext(cfg, runner)

	assert.NoError(t, (&Tune{}).Provision(ctx))
}
