package feature

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/filesystem"
)

// Table maps feature keys to their descriptors. It is read-only input
// supplied externally; the engine never writes it.
type Table struct {
	features map[string]*Descriptor
}

// Get returns the descriptor for a feature key
func (t *Table) Get(key string) (*Descriptor, error) {
	desc, ok := t.features[key]
	if !ok {
		return nil, errors.Newf(errors.ErrFeatureNotFound, "feature %q not in table", key)
	}
	return desc, nil
}

// Has reports whether a feature key is in the table
func (t *Table) Has(key string) bool {
	_, ok := t.features[key]
	return ok
}

// Keys returns all feature keys in sorted order
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.features))
	for key := range t.features {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LoadTable reads a feature table from a TOML or YAML file. The document root
// maps feature keys to attribute bundles.
func LoadTable(fs filesystem.FS, path string) (*Table, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read feature table %s", path)
	}

	raw := make(map[string]map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	default:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	}

	return BuildTable(raw)
}

// BuildTable converts raw attribute bundles into typed descriptors
func BuildTable(raw map[string]map[string]any) (*Table, error) {
	table := &Table{features: make(map[string]*Descriptor, len(raw))}
	for key, attrs := range raw {
		desc, err := buildDescriptor(key, attrs)
		if err != nil {
			return nil, err
		}
		table.features[key] = desc
	}
	return table, nil
}

func buildDescriptor(key string, attrs map[string]any) (*Descriptor, error) {
	desc := &Descriptor{Key: key}

	var err error
	set := func(parse func() error) {
		if err == nil {
			err = parse()
		}
	}

	desc.PackageDependencies = stringSlice(attrs["packagedependencies"])
	desc.PackageNames = stringSlice(attrs["packagenames"])
	desc.PackageURLs = stringSlice(attrs["packageurls"])
	desc.CompressedFileURL = stringValue(attrs["compressedfileurl"])
	desc.CompressedFileType = stringValue(attrs["compressedfiletype"])
	desc.CompressedFilePathOverride = stringValue(attrs["compressedfilepathoverride"])
	desc.DoNotInherit = boolValue(attrs["donotinherit"])
	desc.RepositoryURL = stringValue(attrs["repositoryurl"])
	desc.PipInstallations = stringSlice(attrs["pipinstallations"])
	desc.PythonCommands = stringSlice(attrs["pythoncommands"])
	desc.BashFunctions = stringSlice(attrs["bashfunctions"])
	desc.BashInitializations = stringSlice(attrs["bashinitializations"])
	desc.LauncherContents = stringSlice(attrs["launchercontents"])
	desc.LauncherNames = stringSlice(attrs["launchernames"])
	desc.AutostartLaunchers = stringSlice(attrs["autostartlaunchers"])
	desc.Autostart = boolValue(attrs["autostart"])

	set(func() error {
		for _, s := range stringSlice(attrs["keybindings"]) {
			kb, err := ParseKeybinding(s)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.Keybindings = append(desc.Keybindings, kb)
		}
		return nil
	})
	set(func() error {
		for _, s := range stringSlice(attrs["downloads"]) {
			dl, err := ParseDownload(s)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.Downloads = append(desc.Downloads, dl)
		}
		return nil
	})
	set(func() error {
		for _, s := range stringSlice(attrs["binariesinstalledpaths"]) {
			bp, err := ParseBinaryPath(s)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.BinariesInstalledPaths = append(desc.BinariesInstalledPaths, bp)
		}
		return nil
	})
	set(func() error {
		for _, s := range stringSlice(attrs["associatedfiletypes"]) {
			assoc, err := ParseAssociation(s)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.AssociatedFileTypes = append(desc.AssociatedFileTypes, assoc)
		}
		return nil
	})
	set(func() error {
		for _, s := range stringSlice(attrs["movefiles"]) {
			mf, err := ParseMoveFile(s)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.MoveFiles = append(desc.MoveFiles, mf)
		}
		return nil
	})

	// Each filekey implies two companion attributes
	set(func() error {
		for _, fileKey := range stringSlice(attrs["filekeys"]) {
			content, ok := attrs[fileKey+"_content"]
			if !ok {
				return errors.Newf(errors.ErrAttributeParse,
					"feature %q: filekey %q is missing %s_content", key, fileKey, fileKey)
			}
			path, ok := attrs[fileKey+"_path"]
			if !ok {
				return errors.Newf(errors.ErrAttributeParse,
					"feature %q: filekey %q is missing %s_path", key, fileKey, fileKey)
			}
			desc.Files = append(desc.Files, FileSpec{
				Key:     fileKey,
				Content: stringValue(content),
				Path:    stringValue(path),
			})
		}
		return nil
	})

	set(func() error {
		if raw := stringValue(attrs["installtype"]); raw != "" {
			it, err := ParseInstallType(raw)
			if err != nil {
				return wrapAttr(err, key)
			}
			desc.InstallType = it
			return nil
		}
		desc.InstallType = desc.InferInstallType()
		return nil
	})

	if err != nil {
		return nil, err
	}
	return desc, nil
}

func wrapAttr(err error, key string) error {
	return errors.Wrapf(err, errors.ErrFeatureInvalid, "feature %q has a malformed attribute", key)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func stringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, stringValue(item))
		}
		return out
	case string:
		return []string{val}
	default:
		return nil
	}
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true") || val == "1" || strings.EqualFold(val, "yes")
	default:
		return false
	}
}
