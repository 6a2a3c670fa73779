package review

import (
	"path/filepath"
	"strings"
)

// languageByExt maps file extensions to display language names for reports.
var languageByExt = map[string]string{
	".go":    "Go",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".py":    "Python",
	".rb":    "Ruby",
	".java":  "Java",
	".kt":    "Kotlin",
	".cs":    "C#",
	".fs":    "F#",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".rs":    "Rust",
	".php":   "PHP",
	".swift": "Swift",
	".scala": "Scala",
	".sql":   "SQL",
	".sh":    "Shell",
	".bash":  "Shell",
	".ps1":   "PowerShell",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".xml":   "XML",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".md":    "Markdown",
	".tf":    "Terraform",
	".proto": "Protobuf",
}

// binaryExts lists extensions treated as binary; their content is never
// fetched or analyzed.
var binaryExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".bmp": true, ".webp": true, ".svgz": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".7z": true, ".rar": true, ".jar": true, ".war": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".class": true, ".pyc": true, ".o": true, ".a": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".wav": true,
}

// LanguageOf infers a display language from the file extension; unknown
// extensions yield an empty string.
func LanguageOf(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryPath reports whether the path's extension marks it as binary.
func IsBinaryPath(path string) bool {
	return binaryExts[strings.ToLower(filepath.Ext(path))]
}
