package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/deskforge/deskforge/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/deskforge/deskforge/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/deskforge/deskforge/internal/version.Date={{.Date}}
)
