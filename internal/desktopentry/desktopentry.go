// Package desktopentry registers the application in the per-user menu and
// associates it with .flatpakref files. Registration is best-effort: startup
// continues on any failure here.
package desktopentry

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const fileName = "flathaven.desktop"

const template = `[Desktop Entry]
Version=1.0
Name=Flathaven
Comment=Flathub browser for Flatpaks
Exec=%s %%f
Icon=application-x-flatpakref
Terminal=false
Type=Application
MimeType=application/vnd.flatpak.ref;
Categories=System;PackageManager;
`

// Install writes the desktop entry into ~/.local/share/applications and
// refreshes the desktop database. execPath is the absolute path of the
// running binary.
func Install(ctx context.Context, execPath string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
	}
	return InstallWithHome(ctx, execPath, homeDir)
}

// InstallWithHome is Install with an explicit home directory for tests.
func InstallWithHome(ctx context.Context, execPath, homeDir string) error {
	appsDir := filepath.Join(homeDir, ".local", "share", "applications")
	if err := os.MkdirAll(appsDir, 0o755); err != nil {
		return err
	}

	content := fmt.Sprintf(template, execPath)
	path := filepath.Join(appsDir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	// Refresh the MIME database so .flatpakref association takes effect. Not
	// every desktop ships the tool, so a failure is just reported upward.
	if _, err := exec.LookPath("update-desktop-database"); err != nil {
		return fmt.Errorf("update-desktop-database unavailable: %w", err)
	}
	return exec.CommandContext(ctx, "update-desktop-database", appsDir).Run()
}
