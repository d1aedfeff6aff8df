package catalog

// App is a single application record. Catalog search results and local
// installed-list rows populate overlapping but not identical field subsets;
// ID is the only join key between the two sources and every other field may
// be empty.
type App struct {
	ID      string `json:"flatpakAppId"`
	Name    string `json:"name"`
	Version string `json:"currentReleaseVersion"`
	Branch  string `json:"branch"`
	Origin  string `json:"origin"`
	Summary string `json:"summary"`
	IconURL string `json:"icon"`
}

// DisplayName prefers the human name, falling back to the identifier.
func (a App) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return "Unknown"
}

// Remote is one configured flatpak remote.
type Remote struct {
	Name    string
	URL     string
	Enabled bool
}
