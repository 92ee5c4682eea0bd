// Package icons loads VS Code style file icon themes and maps entry names to icons.
package icons

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin.json
var builtinTheme []byte

// Definition is one icon: either an image file or a font glyph
type Definition struct {
	IconPath      string `json:"iconPath"`
	FontCharacter string `json:"fontCharacter"`
	FontColor     string `json:"fontColor"`
}

// Theme is the subset of a VS Code icon theme used for repository listings
type Theme struct {
	Definitions    map[string]Definition `json:"iconDefinitions"`
	File           string                `json:"file"`
	Folder         string                `json:"folder"`
	FileExtensions map[string]string     `json:"fileExtensions"`
	FileNames      map[string]string     `json:"fileNames"`
	FolderNames    map[string]string     `json:"folderNames"`

	// dir resolves relative iconPath values; empty for the builtin theme
	dir string
}

// Load reads a theme file, or the builtin theme when path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return parse(builtinTheme, "")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon theme: %w", err)
	}
	return parse(data, filepath.Dir(path))
}

func parse(data []byte, dir string) (*Theme, error) {
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse icon theme: %w", err)
	}
	t.dir = dir
	t.FileExtensions = lowerKeys(t.FileExtensions)
	t.FileNames = lowerKeys(t.FileNames)
	t.FolderNames = lowerKeys(t.FolderNames)
	return &t, nil
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// FileIcon resolves the icon id for a file name. Exact names win over
// extensions, and longer extensions ("test.go") win over shorter ones ("go").
func (t *Theme) FileIcon(name string) string {
	lower := strings.ToLower(name)
	if id, ok := t.FileNames[lower]; ok {
		return id
	}
	for i := 0; i < len(lower); i++ {
		if lower[i] != '.' || i == len(lower)-1 {
			continue
		}
		if id, ok := t.FileExtensions[lower[i+1:]]; ok {
			return id
		}
	}
	return t.File
}

// FolderIcon resolves the icon id for a directory name
func (t *Theme) FolderIcon(name string) string {
	if id, ok := t.FolderNames[strings.ToLower(name)]; ok {
		return id
	}
	return t.Folder
}

// Class returns the CSS class that renders icon id
func (t *Theme) Class(id string) string {
	if _, ok := t.Definitions[id]; !ok || id == "" {
		return ""
	}
	return "icon " + className(id)
}

func className(id string) string {
	var b strings.Builder
	b.WriteString("icon-")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Style emits the CSS for every definition. assetBase is the URL prefix
// under which CopyAssets' destination is served.
func (t *Theme) Style(assetBase string) string {
	ids := make([]string, 0, len(t.Definitions))
	for id := range t.Definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		def := t.Definitions[id]
		fmt.Fprintf(&b, ".%s::before{", className(id))
		switch {
		case def.IconPath != "":
			fmt.Fprintf(&b, `content:"";background-image:url("%s/%s");`, strings.TrimSuffix(assetBase, "/"), assetName(def.IconPath))
		case def.FontCharacter != "":
			fmt.Fprintf(&b, `content:"%s";`, def.FontCharacter)
			if def.FontColor != "" {
				fmt.Fprintf(&b, "color:%s;", def.FontColor)
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// assetName flattens a theme-relative icon path into a staged file name
func assetName(iconPath string) string {
	clean := filepath.ToSlash(filepath.Clean(iconPath))
	clean = strings.TrimLeft(clean, "./")
	return strings.ReplaceAll(clean, "/", "_")
}

// CopyAssets stages every image icon into dest. overwrite replaces files already there.
func (t *Theme) CopyAssets(dest string, overwrite bool) error {
	if t.dir == "" {
		return nil
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for id, def := range t.Definitions {
		if def.IconPath == "" {
			continue
		}
		target := filepath.Join(dest, assetName(def.IconPath))
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		if err := copyFile(filepath.Join(t.dir, def.IconPath), target); err != nil {
			return fmt.Errorf("stage icon %s: %w", id, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
