package changes

import (
	"fmt"
	"io"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FromDiff builds a ChangeSet from unified diff text, counting added and
// deleted lines per file. Deleted files are listed under their old name.
func FromDiff(r io.Reader) (ChangeSet, error) {
	parsed, _, err := gitdiff.Parse(r)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("parse diff: %w", err)
	}

	files := make([]File, 0, len(parsed))
	for _, f := range parsed {
		name := f.NewName
		if f.IsDelete || name == "" {
			name = f.OldName
		}

		cf := File{Filename: name}
		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					cf.Additions++
				case gitdiff.OpDelete:
					cf.Deletions++
				}
			}
		}
		files = append(files, cf)
	}

	return Summarize(files), nil
}
