package tilt

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/decker502/halabi/"

// TestImports_NoUIFramework walks the package's in-module imports and checks
// none of them links ebiten, so the tilt core builds on headless machines.
func TestImports_NoUIFramework(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func(dir string)
	walk = func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), filepath.Join(dir, name), nil, parser.ImportsOnly)
			require.NoError(t, err)
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				assert.False(t, strings.HasPrefix(path, "github.com/hajimehoshi/ebiten"),
					"%s imports %s", filepath.Join(dir, name), path)
				if rest, ok := strings.CutPrefix(path, modulePath); ok {
					walk(filepath.Join(root, filepath.FromSlash(rest)))
				}
			}
		}
	}
	walk(".")

	assert.True(t, seen[filepath.Join(root, "pkg", "utils", "easing")], "easing helpers come from pkg/utils/easing")
}
