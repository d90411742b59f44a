// Package prerequisites provides utilities for checking the host tools the
// bootstrap shells out to before any phase runs.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// HostTools returns the tools the provisioning run shells out to. The
// token helper is configurable, so it is passed in rather than listed
// statically.
func HostTools(tokenHelper string) []Tool {
	return []Tool{
		{
			Name:        tokenHelper,
			Required:    true,
			Description: "Issues the one-time connector registration token",
		},
		{
			Name:        "apt-get",
			Required:    true,
			Description: "Installs the directory client tools during readiness gating",
		},
		{
			Name:        "sysctl",
			Required:    true,
			Description: "Applies the connector network tuning profile",
		},
		{
			Name:        "systemctl",
			Required:    false,
			Description: "Verifies the connector service after install",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}
