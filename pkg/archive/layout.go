package archive

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/testsabirweb/slack_archive/pkg/models"
)

// Layout names the directory structure of an export snapshot.
type Layout string

const (
	// LayoutExport is the standard Slack export: one directory per
	// channel, one <YYYY-MM-DD>.json day file inside it.
	LayoutExport Layout = "export"

	// LayoutHistory is the date-first tree some history dumpers write:
	// <year>/<month>/<day>/<channel>.json.
	LayoutHistory Layout = "history"
)

// ParseLayout validates a layout selector. Unknown selectors fail with
// UnsupportedFormatError rather than guessing.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutExport, LayoutHistory:
		return Layout(s), nil
	default:
		return "", &models.UnsupportedFormatError{Kind: "layout", Value: s}
	}
}

// SourceFile is one day file in the manifest, already attributed to its
// channel name.
type SourceFile struct {
	Channel string
	Path    string
}

// buildManifest walks the archive root and returns every day file in
// lexicographic path order, which for both layouts is chronological
// order within a channel.
func buildManifest(root string, layout Layout) ([]SourceFile, error) {
	var files []SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		switch layout {
		case LayoutExport:
			// users.json / channels.json live at the root, day files
			// one level down in the channel directory.
			if len(parts) != 2 {
				return nil
			}
			files = append(files, SourceFile{Channel: parts[0], Path: path})
		case LayoutHistory:
			// <year>/<month>/<day>/<channel>.json
			if len(parts) != 4 {
				return nil
			}
			name := strings.TrimSuffix(parts[3], ".json")
			files = append(files, SourceFile{Channel: name, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
