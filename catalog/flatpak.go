package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Available reports whether the package-manager binary can be found and run.
// The startup path treats false as fatal.
func (c *Client) Available(ctx context.Context) bool {
	if _, err := c.runner.LookPath(c.bin); err != nil {
		return false
	}
	_, err := c.runner.CombinedOutput(ctx, c.bin, "--version")
	return err == nil
}

// ListInstalled enumerates installed applications via the package manager.
// Failure yields nil plus a retained error detail; malformed rows are
// dropped by the parser.
func (c *Client) ListInstalled(ctx context.Context) []App {
	output, err := c.runner.CombinedOutput(ctx, c.bin,
		"list", "--app", "--columns=name,application,version,branch,origin")
	if err != nil {
		c.log.Warn("catalog", "installed listing failed", map[string]interface{}{"error": err.Error()})
		c.setError(commandError(err, output))
		return nil
	}

	c.clearError()
	return ParseInstalledTable(string(output))
}

// Install installs one application from the configured remote, confirmed
// non-interactively.
func (c *Client) Install(ctx context.Context, id string) bool {
	return c.lifecycle(ctx, "install", c.bin, "install", c.remote, id, "-y")
}

// Uninstall removes one application.
func (c *Client) Uninstall(ctx context.Context, id string) bool {
	return c.lifecycle(ctx, "uninstall", c.bin, "uninstall", id, "-y")
}

// Update updates one application.
func (c *Client) Update(ctx context.Context, id string) bool {
	return c.lifecycle(ctx, "update", c.bin, "update", id, "-y")
}

// UpdateAll updates every installed application.
func (c *Client) UpdateAll(ctx context.Context) bool {
	return c.lifecycle(ctx, "update-all", c.bin, "update", "-y")
}

// InstallRef installs from a local .flatpakref file.
func (c *Client) InstallRef(ctx context.Context, path string) bool {
	return c.lifecycle(ctx, "install-ref", c.bin, "install", path, "-y")
}

func (c *Client) lifecycle(ctx context.Context, kind, name string, args ...string) bool {
	output, err := c.runner.CombinedOutput(ctx, name, args...)
	if err != nil {
		c.log.Warn("catalog", "lifecycle operation failed", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		c.setError(commandError(err, output))
		return false
	}

	c.clearError()
	return true
}

// Remotes lists the configured package-manager remotes.
func (c *Client) Remotes(ctx context.Context) []Remote {
	output, err := c.runner.CombinedOutput(ctx, c.bin, "remotes", "--columns=name,url,options")
	if err != nil {
		c.log.Warn("catalog", "remote listing failed", map[string]interface{}{"error": err.Error()})
		c.setError(commandError(err, output))
		return nil
	}

	c.clearError()
	return ParseRemotesTable(string(output))
}

// PendingUpdates returns the number of applications with updates available.
// ok is false when the check itself failed; that path is non-critical and
// deliberately quiet (debug log only).
func (c *Client) PendingUpdates(ctx context.Context) (int, bool) {
	output, err := c.runner.CombinedOutput(ctx, c.bin, "remote-ls", "--updates")
	if err != nil {
		c.log.Debug("catalog", "update check failed", map[string]interface{}{"error": err.Error()})
		return 0, false
	}

	return CountUpdateRows(string(output)), true
}

// commandError folds a subprocess failure and its captured output into one
// display string.
func commandError(err error, output []byte) string {
	detail := strings.TrimSpace(string(output))
	if detail == "" {
		return err.Error()
	}
	return fmt.Sprintf("%v: %s", err, detail)
}
