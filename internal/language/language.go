// Package language maps file extensions to markdown fence language tags.
package language

import (
	"strings"
)

const (
	// HintText is used for conventional extensionless files with no better tag.
	HintText = "text"
)

var hints = map[string]string{
	// .NET
	"cs":     "csharp",
	"vb":     "vbnet",
	"fs":     "fsharp",
	"xaml":   "xml",
	"axaml":  "xml",
	"csproj": "xml",
	"vbproj": "xml",
	"fsproj": "xml",
	"sln":    "text",

	// web
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"html": "html",
	"htm":  "html",
	"css":  "css",
	"scss": "scss",
	"less": "less",
	"vue":  "vue",

	"py":    "python",
	"java":  "java",
	"kt":    "kotlin",
	"scala": "scala",
	"c":     "c",
	"cpp":   "cpp",
	"h":     "cpp",
	"hpp":   "cpp",
	"cc":    "cpp",
	"cxx":   "cpp",
	"rs":    "rust",
	"go":    "go",
	"php":   "php",
	"rb":    "ruby",
	"swift": "swift",

	// Godot scenes, resources and project settings are INI-like; shaders are GLSL-like.
	"gd":       "gdscript",
	"gdscript": "gdscript",
	"tscn":     "ini",
	"tres":     "ini",
	"escn":     "ini",
	"godot":    "ini",
	"import":   "ini",
	"shader":   "glsl",
	"gdshader": "glsl",
	"gdns":     "ini",
	"gdnlib":   "ini",

	"sh":   "bash",
	"bash": "bash",
	"ps1":  "powershell",
	"bat":  "batch",
	"cmd":  "batch",

	"json":   "json",
	"xml":    "xml",
	"yaml":   "yaml",
	"yml":    "yaml",
	"toml":   "toml",
	"ini":    "ini",
	"cfg":    "ini",
	"config": "xml",
	"env":    "properties",

	"md":       "markdown",
	"markdown": "markdown",
	"txt":      "text",

	"sql":  "sql",
	"psql": "sql",
}

var fileNameHints = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// Hint returns the fence tag for extension. A leading dot is tolerated and case
// is ignored. Unknown extensions are returned lower-cased as their own tag.
func Hint(extension string) string {
	normalized := strings.ToLower(strings.TrimPrefix(extension, "."))
	if hint, known := hints[normalized]; known {
		return hint
	}
	return normalized
}

// HintForFile resolves the tag for a file, falling back to its base name when
// the file has no extension.
func HintForFile(name string, extension string) string {
	if extension != "" {
		return Hint(extension)
	}
	if hint, known := fileNameHints[strings.ToLower(name)]; known {
		return hint
	}
	return HintText
}
