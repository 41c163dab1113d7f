package changes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySize_Boundaries(t *testing.T) {
	assert.Equal(t, SizeSmall, ClassifySize(0))
	assert.Equal(t, SizeSmall, ClassifySize(200))
	assert.Equal(t, SizeMedium, ClassifySize(201))
	assert.Equal(t, SizeMedium, ClassifySize(500))
	assert.Equal(t, SizeLarge, ClassifySize(501))
}

func TestSummarize(t *testing.T) {
	files := []File{
		{Filename: "main.go", Additions: 120, Deletions: 10},
		{Filename: "README.md", Additions: 60, Deletions: 11},
	}

	cs := Summarize(files)

	assert.Equal(t, 180, cs.TotalAdditions)
	assert.Equal(t, 21, cs.TotalDeletions)
	assert.Equal(t, 201, cs.Total())
	assert.Equal(t, SizeMedium, cs.Size)
	assert.Equal(t, []string{"main.go", "README.md"}, cs.FileNames())

	// mutating the input must not leak into the summary
	files[0].Filename = "changed.go"
	assert.Equal(t, "main.go", cs.Files[0].Filename)
}

func TestSummarize_Empty(t *testing.T) {
	cs := Summarize(nil)
	assert.Zero(t, cs.TotalAdditions)
	assert.Zero(t, cs.TotalDeletions)
	assert.Equal(t, SizeSmall, cs.Size)
	assert.Empty(t, cs.Files)
}

func TestDescribeFile(t *testing.T) {
	tests := map[string]string{
		"cmd/main.go":              "Go file cmd/main.go",
		"web/App.tsx":              "React component web/App.tsx",
		".github/workflows/ci.yml": "workflow configuration .github/workflows/ci.yml",
		"db/001_init.sql":          "SQL migration db/001_init.sql",
		"package-lock.json":        "configuration file package-lock.json",
		"yarn.lock":                "lock file yarn.lock",
		".env":                     "environment file .env",
		"Makefile":                 "file Makefile",
		"assets/logo.png":          "file assets/logo.png",
		"docs/guide.md":            "documentation docs/guide.md",
		"README.MD":                "file README.MD",
		"cmd/Main.GO":              "file cmd/Main.GO",
	}
	for name, want := range tests {
		assert.Equal(t, want, DescribeFile(name))
	}
}

func TestDescribeFiles(t *testing.T) {
	got := DescribeFiles([]File{{Filename: "a.py"}, {Filename: "b.sh"}})
	assert.Equal(t, []string{"Python script a.py", "shell script b.sh"}, got)
}

const sampleDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,2 +1,4 @@
 package main
-import "fmt"
+import (
+	"fmt"
+)
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 3333333..0000000
--- a/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-one
-two
`

func TestFromDiff(t *testing.T) {
	cs, err := FromDiff(strings.NewReader(sampleDiff))
	require.NoError(t, err)

	require.Len(t, cs.Files, 2)
	assert.Equal(t, File{Filename: "main.go", Additions: 3, Deletions: 1}, cs.Files[0])
	assert.Equal(t, File{Filename: "old.txt", Additions: 0, Deletions: 2}, cs.Files[1])
	assert.Equal(t, 3, cs.TotalAdditions)
	assert.Equal(t, 3, cs.TotalDeletions)
	assert.Equal(t, SizeSmall, cs.Size)
}

func TestFromDiff_Empty(t *testing.T) {
	cs, err := FromDiff(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cs.Files)
	assert.Equal(t, SizeSmall, cs.Size)
}
