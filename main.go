package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"

	"flathaven/catalog"
	"flathaven/internal/config"
	"flathaven/internal/desktopentry"
	"flathaven/internal/logger"
)

const flatpakrefExt = ".flatpakref"

func main() {
	cmd := &cli.Command{
		Name:      "flathaven",
		Usage:     "A Flathub-like browser for Flatpaks",
		Version:   AppVersion,
		ArgsUsage: "[file" + flatpakrefExt + "]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable debug logging",
				Aliases: []string{"v"},
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log := logger.NewConsole(cmd.Bool("verbose"))

	// One browser per session; a second instance would race the first on
	// lifecycle operations.
	lock := flock.New(filepath.Join(os.TempDir(), "flathaven.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to acquire process lock: %v", err), 1)
	}
	if !locked {
		return cli.Exit("another flathaven instance is already running", 1)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			log.Warn("startup", "failed to release process lock", map[string]interface{}{"error": unlockErr.Error()})
		}
	}()

	settingsPath := config.Path()
	settings, err := config.Load(settingsPath)
	if err != nil && !os.IsNotExist(err) {
		log.Warn("startup", "settings file unusable, using defaults", map[string]interface{}{
			"path":  settingsPath,
			"error": err.Error(),
		})
	}

	client := catalog.NewClient(settings.CatalogURL, settings.Remote, settings.RequestTimeout(), log)
	if !client.Available(ctx) {
		return cli.Exit("Error: Flatpak is not installed or not available in PATH\n"+
			"Please install Flatpak first:\n"+
			"  Ubuntu/Debian: sudo apt install flatpak\n"+
			"  Fedora: sudo dnf install flatpak\n"+
			"  Arch: sudo pacman -S flatpak", 1)
	}

	// Menu registration and .flatpakref MIME association. Best-effort only.
	if execPath, execErr := os.Executable(); execErr == nil {
		if entryErr := desktopentry.Install(ctx, execPath); entryErr != nil {
			log.Warn("startup", "could not set up desktop entry", map[string]interface{}{"error": entryErr.Error()})
		}
	}

	refPath := ""
	if arg := cmd.Args().First(); strings.HasSuffix(arg, flatpakrefExt) {
		refPath = arg
	}

	app := NewBrowserApp(settings, settingsPath, refPath, log)
	app.Run()
	return nil
}
