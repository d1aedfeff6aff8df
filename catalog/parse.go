package catalog

import (
	"strings"
)

const (
	installedColumns = 5
	remoteColumns    = 3
)

// ParseInstalledTable parses `flatpak list` output: one row per line, columns
// separated by a single tab (name, application, version, branch, origin).
// Rows with too few columns are skipped; a malformed row never aborts the
// whole listing.
func ParseInstalledTable(output string) []App {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	apps := make([]App, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < installedColumns {
			continue
		}

		apps = append(apps, App{
			Name:    parts[0],
			ID:      parts[1],
			Version: parts[2],
			Branch:  parts[3],
			Origin:  parts[4],
		})
	}

	return apps
}

// ParseRemotesTable parses `flatpak remotes` output with columns
// name, url, options. A remote is enabled unless its options mention
// "disabled".
func ParseRemotesTable(output string) []Remote {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	remotes := make([]Remote, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < remoteColumns {
			continue
		}

		remotes = append(remotes, Remote{
			Name:    parts[0],
			URL:     parts[1],
			Enabled: !strings.Contains(parts[2], "disabled"),
		})
	}

	return remotes
}

// CountUpdateRows counts non-empty lines of `flatpak remote-ls --updates`
// output, one pending update per line.
func CountUpdateRows(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
