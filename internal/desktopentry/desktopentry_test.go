package desktopentry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstallWithHomeWritesEntry(t *testing.T) {
	t.Parallel()

	home := t.TempDir()

	// update-desktop-database may be absent in the test environment; the
	// entry file must land regardless of the returned error.
	_ = InstallWithHome(context.Background(), "/usr/local/bin/flathaven", home)

	data, err := os.ReadFile(filepath.Join(home, ".local", "share", "applications", "flathaven.desktop"))
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, "Exec=/usr/local/bin/flathaven %f")
	require.Contains(t, content, "MimeType=application/vnd.flatpak.ref;")
	require.Contains(t, content, "Type=Application")
}
