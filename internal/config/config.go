package config

// Config is the immutable input bundle for one provisioning run. Secret
// fields may hold ciphertext when a KMS key is configured; they are
// resolved to plaintext once, near the start of the run, and the resolved
// values never appear in any log sink.
type Config struct {
	Registration RegistrationConfig `mapstructure:"registration" yaml:"registration"`
	AD           ADConfig           `mapstructure:"active_directory" yaml:"active_directory"`
	API          APIConfig          `mapstructure:"api" yaml:"api"`
	KMS          KMSConfig          `mapstructure:"kms" yaml:"kms"`
	Connector    ConnectorConfig    `mapstructure:"connector" yaml:"connector"`
	TLS          TLSConfig          `mapstructure:"tls" yaml:"tls"`
	License      LicenseConfig      `mapstructure:"license" yaml:"license"`
	Paths        PathsConfig        `mapstructure:"paths" yaml:"paths"`
}

// RegistrationConfig identifies this deployment to the management service.
type RegistrationConfig struct {
	// Code is the connector registration code, ciphertext when kms.key_id
	// is set.
	Code string `mapstructure:"code" yaml:"code"`
}

// ADConfig describes the Active Directory domain the connector joins.
type ADConfig struct {
	Username         string `mapstructure:"username" yaml:"username"`
	Password         string `mapstructure:"password" yaml:"password"` // ciphertext when kms.key_id is set
	Domain           string `mapstructure:"domain" yaml:"domain"`
	DomainController string `mapstructure:"domain_controller" yaml:"domain_controller"`
	DomainGroup      string `mapstructure:"domain_group" yaml:"domain_group"`
}

// APIConfig locates the management API and the helper used to reach it.
type APIConfig struct {
	URL string `mapstructure:"url" yaml:"url"`

	// ServiceAccount is the service account credential document,
	// ciphertext when kms.key_id is set. It is written to
	// CredentialFile before the token helper runs.
	ServiceAccount string `mapstructure:"service_account" yaml:"service_account"`
	CredentialFile string `mapstructure:"credential_file" yaml:"credential_file"`
	TokenHelper    string `mapstructure:"token_helper" yaml:"token_helper"`
}

// KMSConfig selects decrypt mode for secret fields. An empty KeyID means
// all secret fields are taken verbatim.
type KMSConfig struct {
	KeyID  string `mapstructure:"key_id" yaml:"key_id"`
	Region string `mapstructure:"region" yaml:"region"`
}

// ConnectorConfig describes the connector software bundle.
type ConnectorConfig struct {
	DownloadURL string `mapstructure:"download_url" yaml:"download_url"`
	InstallDir  string `mapstructure:"install_dir" yaml:"install_dir"`

	// BinaryPath is the installed connector binary; its presence is the
	// idempotency marker for the whole run.
	BinaryPath string `mapstructure:"binary_path" yaml:"binary_path"`

	// InstallerPath is the installer entry point inside the unpacked
	// bundle.
	InstallerPath string `mapstructure:"installer_path" yaml:"installer_path"`

	// SyncIntervalMinutes is passed through to the installer.
	SyncIntervalMinutes int `mapstructure:"sync_interval_minutes" yaml:"sync_interval_minutes"`
}

// TLSConfig references the connector key and certificate in blob storage.
// All fields empty selects insecure mode.
type TLSConfig struct {
	Bucket     string `mapstructure:"bucket" yaml:"bucket"`
	Region     string `mapstructure:"region" yaml:"region"`
	KeyObject  string `mapstructure:"key_object" yaml:"key_object"`
	CertObject string `mapstructure:"cert_object" yaml:"cert_object"`
	KeyFile    string `mapstructure:"key_file" yaml:"key_file"`
	CertFile   string `mapstructure:"cert_file" yaml:"cert_file"`
}

// Enabled reports whether TLS mode is configured.
func (t TLSConfig) Enabled() bool {
	return t.KeyObject != "" && t.CertObject != ""
}

// LicenseConfig points at an optional local licensing service. An empty
// address skips the licensing readiness gate and the installer argument.
type LicenseConfig struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
}

// PathsConfig collects the files this run writes.
type PathsConfig struct {
	LogFile         string `mapstructure:"log_file" yaml:"log_file"`
	InstallLogFile  string `mapstructure:"install_log_file" yaml:"install_log_file"`
	SysctlFile      string `mapstructure:"sysctl_file" yaml:"sysctl_file"`
	MetricsTextfile string `mapstructure:"metrics_textfile" yaml:"metrics_textfile"`
}

// applyDefaults fills in conventional locations for anything the file
// leaves unset.
func (c *Config) applyDefaults() {
	if c.Connector.InstallDir == "" {
		c.Connector.InstallDir = "/opt/gateway-connector"
	}
	if c.Connector.BinaryPath == "" {
		c.Connector.BinaryPath = c.Connector.InstallDir + "/connector/bin/connector"
	}
	if c.Connector.InstallerPath == "" {
		c.Connector.InstallerPath = c.Connector.InstallDir + "/connector/install"
	}
	if c.Connector.SyncIntervalMinutes == 0 {
		c.Connector.SyncIntervalMinutes = 5
	}
	if c.API.CredentialFile == "" {
		c.API.CredentialFile = "/etc/gatewayboot/service-account.json"
	}
	if c.API.TokenHelper == "" {
		c.API.TokenHelper = "gateway-register"
	}
	if c.TLS.KeyFile == "" {
		c.TLS.KeyFile = "/etc/gatewayboot/tls/connector.key"
	}
	if c.TLS.CertFile == "" {
		c.TLS.CertFile = "/etc/gatewayboot/tls/connector.crt"
	}
	if c.Paths.LogFile == "" {
		c.Paths.LogFile = "/var/log/gatewayboot/bootstrap.log"
	}
	if c.Paths.InstallLogFile == "" {
		c.Paths.InstallLogFile = "/var/log/gatewayboot/install.log"
	}
	if c.Paths.SysctlFile == "" {
		c.Paths.SysctlFile = "/etc/sysctl.d/60-gateway-connector.conf"
	}
}
