package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for structural errors. All problems
// are collected before failing so a misconfigured launch template is fixed
// in one pass. Error messages name fields only, never their values.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		ok    bool
		field string
	}{
		{c.Registration.Code != "", "registration.code"},
		{c.AD.Username != "", "active_directory.username"},
		{c.AD.Password != "", "active_directory.password"},
		{c.AD.Domain != "", "active_directory.domain"},
		{c.AD.DomainController != "", "active_directory.domain_controller"},
		{c.API.URL != "", "api.url"},
		{c.API.ServiceAccount != "", "api.service_account"},
		{c.Connector.DownloadURL != "", "connector.download_url"},
	}
	for _, r := range required {
		if !r.ok {
			errs = append(errs, fmt.Errorf("%s is required", r.field))
		}
	}

	if c.KMS.KeyID != "" && c.KMS.Region == "" {
		errs = append(errs, fmt.Errorf("kms.region is required when kms.key_id is set"))
	}

	// TLS object references come as a pair; a lone key or cert is a
	// launch template mistake, not a mode selection.
	if (c.TLS.KeyObject == "") != (c.TLS.CertObject == "") {
		errs = append(errs, fmt.Errorf("tls.key_object and tls.cert_object must be set together"))
	}
	if c.TLS.Enabled() && c.TLS.Bucket == "" {
		errs = append(errs, fmt.Errorf("tls.bucket is required when TLS objects are set"))
	}

	if c.Connector.SyncIntervalMinutes < 0 {
		errs = append(errs, fmt.Errorf("connector.sync_interval_minutes must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
