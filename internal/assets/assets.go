// Package assets finds the files to upload and decides what kind of asset
// each one becomes.
package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Type is a Roblox asset type, or one of the pseudo types Auto and Unknown.
type Type string

const (
	Auto    Type = "auto"
	Decal   Type = "decal"
	Unknown Type = "unknown"
)

// Types lists the values accepted by ParseType.
var Types = []Type{Auto, Decal}

// extensions maps each uploadable type to the file extensions it accepts.
// Auto detection walks uploadable in order.
var (
	extensions = map[Type][]string{
		Decal: {".png", ".jpg", ".jpeg"},
	}
	uploadable = []Type{Decal}
)

// ParseType validates a user supplied type. Empty means Auto.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid asset type %q (expected one of auto, decal)", s)
}

// Detect returns the asset type implied by the extension of path.
func Detect(path string) Type {
	lower := strings.ToLower(path)
	for _, t := range uploadable {
		for _, ext := range extensions[t] {
			if strings.HasSuffix(lower, ext) {
				return t
			}
		}
	}
	return Unknown
}

// Expand resolves glob patterns (including **) into regular files. Order
// follows the patterns; a file matched twice is listed once.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to get files for %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}

// Group is the files sharing one asset type.
type Group struct {
	Type  Type
	Files []string
}

// Groups holds one Group per uploadable type followed by Unknown.
type Groups []Group

// Classify sorts paths into groups. With Auto each file is typed by its
// extension; any other type is applied to every file.
func Classify(paths []string, t Type) Groups {
	groups := make(Groups, 0, len(uploadable)+1)
	for _, u := range uploadable {
		groups = append(groups, Group{Type: u})
	}
	groups = append(groups, Group{Type: Unknown})

	for _, p := range paths {
		pt := t
		if pt == Auto || pt == "" {
			pt = Detect(p)
		}
		groups.add(pt, p)
	}
	return groups
}

func (g Groups) add(t Type, path string) {
	for i := range g {
		if g[i].Type == t {
			g[i].Files = append(g[i].Files, path)
			return
		}
	}
	// Types without a group of their own are not uploadable.
	g[len(g)-1].Files = append(g[len(g)-1].Files, path)
}

// Files returns the files of type t.
func (g Groups) Files(t Type) []string {
	for _, grp := range g {
		if grp.Type == t {
			return grp.Files
		}
	}
	return nil
}

// Info describes an image file on disk.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Inspect decodes the image header of path.
func Inspect(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, fmt.Errorf("%s: not a readable image: %w", filepath.Base(path), err)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
