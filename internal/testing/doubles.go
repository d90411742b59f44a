package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/platform/system"
)

// RunCall records one FakeRunner invocation and whether the echo was
// silenced at the time.
type RunCall struct {
	Cmd      system.Command
	Silenced bool
}

// FakeRunner is a scripted system.Runner. The Script hook decides each
// command's result; a nil Script succeeds with empty output.
type FakeRunner struct {
	Script func(cmd system.Command) (system.Result, error)

	mu           sync.Mutex
	Calls        []RunCall
	quiet        int
	SilenceCalls int
	RestoreCalls int
}

// Run implements system.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd system.Command) (system.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, RunCall{Cmd: cmd, Silenced: f.quiet > 0})
	f.mu.Unlock()

	if f.Script == nil {
		return system.Result{}, nil
	}
	res, err := f.Script(cmd)
	if err == nil && cmd.Stream != nil && res.Output != "" {
		_, _ = cmd.Stream.Write([]byte(res.Output))
	}
	return res, err
}

// Silence implements system.Runner.
func (f *FakeRunner) Silence() func() {
	f.mu.Lock()
	f.quiet++
	f.SilenceCalls++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.quiet--
			f.RestoreCalls++
			f.mu.Unlock()
		})
	}
}

// Quiet reports whether a silence scope is currently open. Tests use it to
// assert every Silence() was paired with its restore.
func (f *FakeRunner) Quiet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quiet > 0
}

// CommandLines renders the recorded calls as "path arg arg..." strings for
// simple assertions.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		line := c.Cmd.Path
		for _, a := range c.Cmd.Args {
			line += " " + a
		}
		lines = append(lines, line)
	}
	return lines
}

// FailAll is a FakeRunner script that fails every command with exit 1.
func FailAll() func(system.Command) (system.Result, error) {
	return func(cmd system.Command) (system.Result, error) {
		return system.Result{ExitCode: 1}, &system.ExitError{Path: cmd.Path, Code: 1}
	}
}

// FakeDecrypter maps ciphertexts to plaintexts.
type FakeDecrypter struct {
	Plaintexts map[string]string
	Err        error
	Calls      []string
}

// Decrypt implements kms.Decrypter.
func (f *FakeDecrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	f.Calls = append(f.Calls, ciphertext)
	if f.Err != nil {
		return "", f.Err
	}
	plain, ok := f.Plaintexts[ciphertext]
	if !ok {
		return "", fmt.Errorf("no plaintext scripted for ciphertext")
	}
	return plain, nil
}

// FakeIssuer returns a fixed token or error.
type FakeIssuer struct {
	Token string
	Err   error
	Calls int
}

// IssueToken implements mgmtapi.TokenIssuer.
func (f *FakeIssuer) IssueToken(_ context.Context) (string, error) {
	f.Calls++
	return f.Token, f.Err
}

// FetchedObject records one FakeStore fetch.
type FetchedObject struct {
	Bucket, Key, Dest string
}

// FakeStore is a scripted blob.Store that records fetches.
type FakeStore struct {
	Err     error
	Fetched []FetchedObject

	// Contents, if set, is written to the destination path keyed by
	// object key.
	Contents map[string][]byte
}

// FetchToFile implements blob.Store.
func (f *FakeStore) FetchToFile(_ context.Context, bucket, key, dest string) error {
	f.Fetched = append(f.Fetched, FetchedObject{Bucket: bucket, Key: key, Dest: dest})
	if f.Err != nil {
		return f.Err
	}
	if data, ok := f.Contents[key]; ok {
		return writeFile(dest, data)
	}
	return nil
}

// NewConfig returns a minimal valid configuration rooted under dir so
// tests never touch real system paths.
func NewConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Registration.Code = "reg-code-123"
	cfg.AD.Username = "svc-connector"
	cfg.AD.Password = "ad-password"
	cfg.AD.Domain = "corp.example.com"
	cfg.AD.DomainController = "dc1.corp.example.com"
	cfg.AD.DomainGroup = "Gateway Users"
	cfg.API.URL = "https://manage.example.com"
	cfg.API.ServiceAccount = `{"id":"sa-1"}`
	cfg.API.CredentialFile = dir + "/service-account.json"
	cfg.API.TokenHelper = "gateway-register"
	cfg.Connector.DownloadURL = "https://downloads.example.com/connector.tar.gz"
	cfg.Connector.InstallDir = dir + "/opt"
	cfg.Connector.BinaryPath = dir + "/opt/connector/bin/connector"
	cfg.Connector.InstallerPath = dir + "/opt/connector/install"
	cfg.Connector.SyncIntervalMinutes = 5
	cfg.TLS.KeyFile = dir + "/tls/connector.key"
	cfg.TLS.CertFile = dir + "/tls/connector.crt"
	cfg.Paths.LogFile = dir + "/bootstrap.log"
	cfg.Paths.InstallLogFile = dir + "/install.log"
	cfg.Paths.SysctlFile = dir + "/sysctl.conf"
	return cfg
}
