package config

// Default configuration values.
const (
	DefaultOutput        = "code2text.txt"
	DefaultMaxFileSizeKB = 1024
	DefaultConfigName    = ".code2text"
	EnvPrefix            = "CODE2TEXT"
)

// DefaultEncodings is the decoding order. UTF-16 is only accepted with a byte
// order mark. windows-1252 leaves five bytes undefined, which latin1 covers.
var DefaultEncodings = []string{"utf-8", "utf-16", "windows-1252", "latin1"}

// DefaultExtensions lists the source and config suffixes included in the report.
var DefaultExtensions = []string{
	".c", ".cpp", ".cc", ".cxx", ".h", ".hh", ".hpp", ".hxx", ".ino",
	".py", ".pyw",
	".java", ".kt", ".kts",
	".js", ".jsx", ".ts", ".tsx",
	".rb", ".go", ".rs", ".swift", ".cs", ".php", ".lua", ".r", ".m",
	".html", ".htm", ".css", ".scss", ".sass",
	".sh", ".bat", ".ps1",
	".sql", ".asm", ".s",
	".json", ".xml", ".yml", ".yaml", ".toml", ".ini",
}

// DefaultFilenames are included by exact name.
var DefaultFilenames = []string{
	"Makefile",
	"Dockerfile",
	"CMakeLists.txt",
	"go.mod",
}

// DefaultIgnoreNames are never descended into or emitted.
var DefaultIgnoreNames = []string{
	".git", ".hg", ".svn",
	".idea", ".vscode",
	"node_modules", "vendor",
	"__pycache__", ".mypy_cache", ".pytest_cache", ".tox", ".venv", "venv",
	"build", "dist", "target", "bin", "obj",
	".DS_Store",
}

// DefaultReservedSuffixes exclude an entry whatever its base name.
var DefaultReservedSuffixes = []string{
	"~",
	".egg-info",
	".swp",
	".min.js",
}
