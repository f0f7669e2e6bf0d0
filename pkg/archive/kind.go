package archive

import "strings"

// ParseKind maps a declared archive-type value to a Kind. The single-letter
// tar flags are matched case-sensitively because "j" and "J" select different
// compressions; the longer aliases are case-insensitive.
func ParseKind(s string) Kind {
	switch s {
	case "J":
		return Xz
	case "j":
		return Bzip2
	case "z":
		return Gzip
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zip":
		return Zip
	case "gz", "gzip", "tgz":
		return Gzip
	case "bz2", "bzip2":
		return Bzip2
	case "xz":
		return Xz
	case "", "tar":
		return Tar
	}
	return Kind(s)
}
