package filter

import (
	"path/filepath"
	"sort"
	"strings"
)

var sourceExtensions = map[string]struct{}{
	// .NET
	"cs": {}, "vb": {}, "fs": {}, "csproj": {}, "sln": {}, "xaml": {}, "axaml": {},
	// JVM
	"java": {}, "kt": {}, "scala": {}, "gradle": {},
	// web
	"js": {}, "jsx": {}, "ts": {}, "tsx": {}, "vue": {}, "html": {}, "htm": {}, "css": {}, "scss": {}, "less": {},
	"py": {}, "pyw": {}, "pyi": {},
	"c": {}, "cpp": {}, "h": {}, "hpp": {}, "cc": {}, "cxx": {},
	"rs": {}, "toml": {},
	"go": {}, "mod": {},
	"php": {}, "phtml": {},
	"rb": {}, "erb": {},
	"swift": {}, "m": {}, "mm": {},
	"sql": {}, "psql": {},
	"sh": {}, "bash": {}, "ps1": {}, "bat": {}, "cmd": {},
	"json": {}, "xml": {}, "yaml": {}, "yml": {}, "config": {}, "ini": {}, "env": {},
	"md": {}, "markdown": {}, "txt": {}, "csv": {},
	"dockerfile": {}, "dockerignore": {}, "gitignore": {}, "editorconfig": {},
	// Godot: scripts, scenes and resources, project, import settings, shaders, GDNative
	"gd": {}, "gdscript": {},
	"tscn": {}, "tres": {}, "escn": {},
	"godot": {},
	"import": {},
	"shader": {}, "gdshader": {},
	"gdns": {}, "gdnlib": {},
	"cfg": {},
}

// sourceFileNames lists conventional files that carry no extension.
var sourceFileNames = map[string]struct{}{
	"dockerfile": {}, "makefile": {}, "rakefile": {}, "jenkinsfile": {}, "vagrantfile": {},
	"gemfile": {}, "readme": {}, "license": {}, "contributing": {},
	"project.godot": {}, "export_presets.cfg": {}, "environment": {},
}

// IsSourceLike reports whether path names a file worth documenting: either its
// extension is on the source allowlist or, lacking an extension, its base name is
// a conventional build or documentation file.
func IsSourceLike(path string) bool {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if extension != "" {
		if _, known := sourceExtensions[extension]; known {
			return true
		}
	}
	_, known := sourceFileNames[strings.ToLower(filepath.Base(path))]
	return known
}

// SourceExtensions returns the extension allowlist, lower-cased, without dots, sorted.
func SourceExtensions() []string {
	extensions := make([]string, 0, len(sourceExtensions))
	for extension := range sourceExtensions {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}
