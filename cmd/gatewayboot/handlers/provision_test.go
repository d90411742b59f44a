package handlers

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/platform/blob"
	"github.com/opsmode/gatewayboot/internal/platform/kms"
	"github.com/opsmode/gatewayboot/internal/platform/mgmtapi"
	"github.com/opsmode/gatewayboot/internal/platform/system"
	testhelpers "github.com/opsmode/gatewayboot/internal/testing"
	"github.com/opsmode/gatewayboot/internal/util/prerequisites"
)

// saveAndRestoreFactories snapshots the factory variables and restores
// them when the test finishes. Tests that swap factories must not run in
// parallel.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()

	origLoadConfig := loadConfig
	origNewRunner := newRunner
	origNewDecrypter := newDecrypter
	origNewBlobStore := newBlobStore
	origNewTokenIssuer := newTokenIssuer
	origCheckHostTools := checkHostTools
	origStderrIsTerminal := stderrIsTerminal

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newRunner = origNewRunner
		newDecrypter = origNewDecrypter
		newBlobStore = origNewBlobStore
		newTokenIssuer = origNewTokenIssuer
		checkHostTools = origCheckHostTools
		stderrIsTerminal = origStderrIsTerminal
	})
}

// allToolsPresent stubs the prerequisites check so tests don't depend on
// the host's PATH.
func allToolsPresent(tools []prerequisites.Tool) *prerequisites.CheckResults {
	results := &prerequisites.CheckResults{}
	for _, tool := range tools {
		results.Results = append(results.Results, prerequisites.CheckResult{
			Tool: tool, Found: true, Path: "/usr/bin/" + tool.Name,
		})
	}
	return results
}

// bundleTarGz builds a connector bundle archive with an installer entry.
func bundleTarGz(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	content := []byte("#!/bin/sh\nexit 0\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "connector/install",
		Typeflag: tar.TypeReg,
		Mode:     0o755,
		Size:     int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func writeBootstrapYAML(t *testing.T, dir, downloadURL string) string {
	t.Helper()

	yaml := `
registration:
  code: reg-e2e
active_directory:
  username: svc-connector
  password: pw-e2e
  domain: localhost
  domain_controller: "127.0.0.1"
api:
  url: https://manage.example.com
  service_account: '{"id":"sa-e2e"}'
  credential_file: ` + dir + `/service-account.json
  token_helper: gateway-register
connector:
  download_url: ` + downloadURL + `
  install_dir: ` + dir + `/opt
  binary_path: ` + dir + `/opt/connector/bin/connector
  installer_path: ` + dir + `/opt/connector/install
  sync_interval_minutes: 1
tls:
  bucket: gateway-tls
  key_object: connector.key
  cert_object: connector.crt
  key_file: ` + dir + `/tls/connector.key
  cert_file: ` + dir + `/tls/connector.crt
paths:
  log_file: ` + dir + `/bootstrap.log
  install_log_file: ` + dir + `/install.log
  sysctl_file: ` + dir + `/sysctl.conf
  metrics_textfile: ` + dir + `/gatewayboot.prom
`
	path := filepath.Join(dir, "bootstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func zeroGateBudgets(t *testing.T) {
	t.Helper()

	t.Setenv("GATEWAYBOOT_TIMEOUT_PACKAGE", "0s")
	t.Setenv("GATEWAYBOOT_INTERVAL_PACKAGE", "1ms")
	t.Setenv("GATEWAYBOOT_TIMEOUT_DIRECTORY", "0s")
	t.Setenv("GATEWAYBOOT_INTERVAL_DIRECTORY", "1ms")
	t.Setenv("GATEWAYBOOT_TIMEOUT_LICENSE", "0s")
	t.Setenv("GATEWAYBOOT_INTERVAL_LICENSE", "1ms")
	t.Setenv("GATEWAYBOOT_INSTALL_RETRY_DELAY", "0s")
}

func TestProvisionEndToEnd(t *testing.T) {
	saveAndRestoreFactories(t)
	zeroGateBudgets(t)

	dir := t.TempDir()

	bundle := bundleTarGz(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bundle)
	}))
	defer srv.Close()

	cfgPath := writeBootstrapYAML(t, dir, srv.URL+"/bundle.tar.gz")

	runner := &testhelpers.FakeRunner{}
	store := &testhelpers.FakeStore{}
	issuer := &testhelpers.FakeIssuer{Token: "tok-e2e"}

	newRunner = func(func(format string, v ...any)) system.Runner { return runner }
	newBlobStore = func(context.Context, string) (blob.Store, error) { return store, nil }
	newTokenIssuer = func(system.Runner, *config.Config) mgmtapi.TokenIssuer { return issuer }
	checkHostTools = allToolsPresent
	stderrIsTerminal = func() bool { return false }

	require.NoError(t, Provision(context.Background(), cfgPath))

	// The credential document was staged for the token helper.
	doc, err := os.ReadFile(filepath.Join(dir, "service-account.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"sa-e2e"}`, string(doc))
	assert.Equal(t, 1, issuer.Calls)

	// The bundle landed in the install directory.
	installer, err := os.ReadFile(filepath.Join(dir, "opt", "connector", "install"))
	require.NoError(t, err)
	assert.Contains(t, string(installer), "exit 0")

	// TLS material was staged from blob storage before install.
	require.Len(t, store.Fetched, 2)
	assert.Equal(t, "gateway-tls", store.Fetched[0].Bucket)

	// Exactly one silenced installer invocation in TLS mode, with the
	// token and without the insecure flag.
	var installCalls []testhelpers.RunCall
	for _, c := range runner.Calls {
		if c.Cmd.Path == filepath.Join(dir, "opt", "connector", "install") {
			installCalls = append(installCalls, c)
		}
	}
	require.Len(t, installCalls, 1)
	args := installCalls[0].Cmd.Args
	assert.True(t, installCalls[0].Silenced)
	assert.Contains(t, args, "--token")
	assert.Contains(t, args, "tok-e2e")
	assert.Contains(t, args, "--ssl-key")
	assert.Contains(t, args, "--ssl-cert")
	assert.NotContains(t, args, "--insecure")
	assert.NotContains(t, args, "--license-server")
	assert.False(t, runner.Quiet())

	// The licensing gate was skipped and no secret reached the run log.
	logged, err := os.ReadFile(filepath.Join(dir, "bootstrap.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "no licensing server configured")
	assert.NotContains(t, string(logged), "reg-e2e")
	assert.NotContains(t, string(logged), "pw-e2e")
	assert.NotContains(t, string(logged), "tok-e2e")

	// Metrics were flushed in textfile format.
	metrics, err := os.ReadFile(filepath.Join(dir, "gatewayboot.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "gatewayboot_success 1")
}

func TestProvisionAlreadyInstalledShortCircuits(t *testing.T) {
	saveAndRestoreFactories(t)
	zeroGateBudgets(t)

	dir := t.TempDir()
	cfgPath := writeBootstrapYAML(t, dir, "https://downloads.example.com/bundle.tar.gz")

	// A present connector binary marks the host as provisioned.
	binary := filepath.Join(dir, "opt", "connector", "bin", "connector")
	require.NoError(t, os.MkdirAll(filepath.Dir(binary), 0o755))
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	runner := &testhelpers.FakeRunner{}
	store := &testhelpers.FakeStore{}

	newRunner = func(func(format string, v ...any)) system.Runner { return runner }
	newBlobStore = func(context.Context, string) (blob.Store, error) { return store, nil }
	newTokenIssuer = func(system.Runner, *config.Config) mgmtapi.TokenIssuer {
		return &testhelpers.FakeIssuer{Token: "tok-e2e"}
	}
	checkHostTools = allToolsPresent
	stderrIsTerminal = func() bool { return false }

	require.NoError(t, Provision(context.Background(), cfgPath))

	// No download, no TLS staging, no installer run.
	assert.Empty(t, store.Fetched)
	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "install")
	}
	assert.NoFileExists(t, filepath.Join(dir, "opt", "connector", "install"))
}

func TestProvisionMissingRequiredTool(t *testing.T) {
	saveAndRestoreFactories(t)

	dir := t.TempDir()
	cfgPath := writeBootstrapYAML(t, dir, "https://downloads.example.com/bundle.tar.gz")

	checkHostTools = func(tools []prerequisites.Tool) *prerequisites.CheckResults {
		results := &prerequisites.CheckResults{}
		for _, tool := range tools {
			results.Missing = append(results.Missing, tool)
		}
		return results
	}
	stderrIsTerminal = func() bool { return false }

	err := Provision(context.Background(), cfgPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisites check failed")
}

func TestProvisionConfigLoadFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Provision(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestProvisionDecrypterConstructionFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	dir := t.TempDir()
	cfgPath := writeBootstrapYAML(t, dir, "https://downloads.example.com/bundle.tar.gz")

	loadConfig = func(path string) (*config.Config, error) {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg.KMS.KeyID = "alias/gateway"
		cfg.KMS.Region = "eu-central-1"
		return cfg, nil
	}
	newDecrypter = func(context.Context, string, string) (kms.Decrypter, error) {
		return nil, assert.AnError
	}
	checkHostTools = allToolsPresent
	stderrIsTerminal = func() bool { return false }

	err := Provision(context.Background(), cfgPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "key service client")
}
