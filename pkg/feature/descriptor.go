package feature

import (
	"strings"

	"github.com/deskforge/deskforge/pkg/errors"
)

// InstallType is one of the four provisioning strategies a feature declares.
// Exactly one applies per feature.
type InstallType string

const (
	// SystemPackage installs through the system package manager or
	// downloaded package files
	SystemPackage InstallType = "systempackage"

	// ArchiveInherit downloads and decompresses an archive, optionally
	// inheriting the archive's own top-level directory name
	ArchiveInherit InstallType = "archiveinherit"

	// IsolatedEnvironment creates a private interpreter environment and
	// installs named sub-packages into it
	IsolatedEnvironment InstallType = "isolatedenvironment"

	// RepositoryClone provisions by shallow-cloning a source repository
	RepositoryClone InstallType = "repositoryclone"
)

// ParseInstallType converts a table value into an InstallType
func ParseInstallType(s string) (InstallType, error) {
	switch InstallType(strings.ToLower(strings.TrimSpace(s))) {
	case SystemPackage:
		return SystemPackage, nil
	case ArchiveInherit:
		return ArchiveInherit, nil
	case IsolatedEnvironment:
		return IsolatedEnvironment, nil
	case RepositoryClone:
		return RepositoryClone, nil
	}
	return "", errors.Newf(errors.ErrAttributeParse, "unknown installation type %q", s)
}

// Descriptor is the typed attribute bundle of one feature. Absent attributes
// are zero-valued; absence is the dispatch signal that skips the
// corresponding installer.
type Descriptor struct {
	// Key uniquely identifies the feature
	Key string

	// InstallType selects the provisioning strategy
	InstallType InstallType

	// SystemPackage attributes
	PackageDependencies []string
	PackageNames        []string
	PackageURLs         []string

	// Archive attributes
	CompressedFileURL          string
	CompressedFileType         string
	CompressedFilePathOverride string
	DoNotInherit               bool

	// RepositoryClone attributes
	RepositoryURL string

	// IsolatedEnvironment attributes
	PipInstallations []string
	PythonCommands   []string

	// Shell attributes
	BashFunctions       []string
	BashInitializations []string

	// Launcher attributes
	LauncherContents   []string
	LauncherNames      []string
	AutostartLaunchers []string
	Autostart          bool

	// Tuple attributes
	Keybindings            []Keybinding
	Downloads              []Download
	BinariesInstalledPaths []BinaryPath
	AssociatedFileTypes    []Association
	MoveFiles              []MoveFile

	// Arbitrary file attributes, resolved from filekeys and their
	// <key>_content / <key>_path companions
	Files []FileSpec
}

// ResolvedLauncherNames returns the launcher names the favorites and
// copy-to-desktop installers operate on: the explicit launchernames
// attribute, else the feature key itself.
func (d *Descriptor) ResolvedLauncherNames() []string {
	if len(d.LauncherNames) > 0 {
		return d.LauncherNames
	}
	return []string{d.Key}
}

// InferInstallType picks the strategy from attribute presence when the table
// does not declare one explicitly.
func (d *Descriptor) InferInstallType() InstallType {
	switch {
	case d.RepositoryURL != "":
		return RepositoryClone
	case len(d.PipInstallations) > 0 || len(d.PythonCommands) > 0:
		return IsolatedEnvironment
	case d.CompressedFileURL != "":
		return ArchiveInherit
	default:
		return SystemPackage
	}
}
