// Package artifact downloads and unpacks the connector software bundle.
package artifact

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"

	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// Download fetches the connector bundle over HTTPS (following redirects)
// and extracts it into the install directory.
//
// A failed transfer or extraction is logged and the run continues; the
// install step fails loudly on the missing installer anyway. Escalating
// this to a fatal abort would be reasonable but changes long-standing
// behavior, so it stays a degraded outcome.
type Download struct {
	// Client overrides the HTTP client, for tests. Nil uses a default
	// retryable client.
	Client *retryablehttp.Client
}

// Name implements provisioning.Phase.
func (d *Download) Name() string { return "artifact.download" }

// Provision implements provisioning.Phase.
func (d *Download) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	client := d.Client
	if client == nil {
		client = retryablehttp.NewClient()
		client.RetryMax = 2
		client.Logger = nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", cfg.Connector.DownloadURL, nil)
	if err != nil {
		ctx.Observer.Printf("warning: bad download URL: %v", err)
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		ctx.Observer.Printf("warning: connector bundle download failed: %v", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		ctx.Observer.Printf("warning: connector bundle download returned status %d", resp.StatusCode)
		return nil
	}

	if err := os.MkdirAll(cfg.Connector.InstallDir, 0o755); err != nil {
		ctx.Observer.Printf("warning: could not create install dir: %v", err)
		return nil
	}

	if err := extractTarGz(resp.Body, cfg.Connector.InstallDir); err != nil {
		ctx.Observer.Printf("warning: connector bundle extraction failed: %v", err)
		return nil
	}

	ctx.Observer.Printf("connector bundle unpacked into %s", cfg.Connector.InstallDir)
	return nil
}

// extractTarGz unpacks a gzipped tarball into dest. Entry names that
// escape dest are rejected; entry types other than files and directories
// are skipped.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("not a gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("corrupt archive: %w", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, os.FileMode(hdr.Mode), tr); err != nil {
				return err
			}
		}
	}
}

func writeEntry(target string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // bundle comes from the configured HTTPS origin
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// safeJoin resolves an archive entry name under dest, rejecting absolute
// names and parent-directory escapes.
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes the install directory", name)
	}
	return target, nil
}
