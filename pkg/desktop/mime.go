package desktop

import (
	"strings"
)

// AddAssociation registers a launcher for a MIME type inside the
// mimeapps.list content and returns the edited text.
//
// A wholly new type is appended as its own line. An existing type gets the
// launcher appended to its application list; the two text patterns below
// (list already ends in the separator vs needs one added) must be preserved
// exactly or the association file gets corrupted.
func AddAssociation(content, mimeType, launcher string) string {
	launcherFile := FileName(launcher)
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if !strings.HasPrefix(line, mimeType+"=") {
			continue
		}
		if strings.Contains(line, launcherFile) {
			return content
		}
		if strings.HasSuffix(line, ";") {
			lines[i] = line + launcherFile + ";"
		} else {
			lines[i] = line + ";" + launcherFile + ";"
		}
		return strings.Join(lines, "\n")
	}

	// type is wholly new
	entry := mimeType + "=" + launcherFile + ";"
	if content == "" {
		return entry + "\n"
	}
	if !strings.HasSuffix(content, "\n") {
		return content + "\n" + entry + "\n"
	}
	return content + entry + "\n"
}
