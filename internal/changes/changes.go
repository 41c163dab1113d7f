package changes

import "path/filepath"

// Size is a coarse classification of how big a change is
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// File is one entry of a pull request's diff listing
type File struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ChangeSet aggregates the files of one pull request
type ChangeSet struct {
	Files          []File `json:"files"`
	TotalAdditions int    `json:"total_additions"`
	TotalDeletions int    `json:"total_deletions"`
	Size           Size   `json:"size"`
}

// Total returns additions plus deletions
func (c ChangeSet) Total() int {
	return c.TotalAdditions + c.TotalDeletions
}

// FileNames returns the filenames in listing order
func (c ChangeSet) FileNames() []string {
	names := make([]string, len(c.Files))
	for i, f := range c.Files {
		names[i] = f.Filename
	}
	return names
}

// ClassifySize maps a changed line count to a Size
func ClassifySize(total int) Size {
	switch {
	case total > 500:
		return SizeLarge
	case total > 200:
		return SizeMedium
	default:
		return SizeSmall
	}
}

// Summarize totals the files and classifies the size.
// The input slice is copied so the ChangeSet does not alias the caller's data.
func Summarize(files []File) ChangeSet {
	cs := ChangeSet{Files: append([]File(nil), files...)}
	for _, f := range files {
		cs.TotalAdditions += f.Additions
		cs.TotalDeletions += f.Deletions
	}
	cs.Size = ClassifySize(cs.Total())
	return cs
}

var fileKinds = map[string]string{
	".js":   "JavaScript module",
	".ts":   "TypeScript file",
	".jsx":  "React component",
	".tsx":  "React component",
	".yml":  "workflow configuration",
	".yaml": "workflow configuration",
	".json": "configuration file",
	".md":   "documentation",
	".css":  "stylesheet",
	".scss": "stylesheet",
	".html": "template",
	".py":   "Python script",
	".java": "Java class",
	".go":   "Go file",
	".sql":  "SQL migration",
	".sh":   "shell script",
	".xml":  "XML config",
	".env":  "environment file",
	".toml": "config file",
	".lock": "lock file",
}

// FileKind returns the kind label for a filename's extension, or "file".
// Extensions match case-sensitively, so README.MD is a plain file.
func FileKind(filename string) string {
	ext := filepath.Ext(filename)
	if kind, ok := fileKinds[ext]; ok {
		return kind
	}
	return "file"
}

// DescribeFile returns "<kind> <filename>", e.g. "Go file cmd/main.go"
func DescribeFile(filename string) string {
	return FileKind(filename) + " " + filename
}

// DescribeFiles applies DescribeFile to each file in order
func DescribeFiles(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = DescribeFile(f.Filename)
	}
	return out
}
