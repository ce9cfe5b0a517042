package workflow

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

const modulePath = "github.com/smartallies/incident"

// hostedSDKs start background goroutines from init or pull in packages that
// do; the engine must stay clear of them.
var hostedSDKs = []string{
	"google.golang.org/genai",
	"github.com/openai/openai-go",
	"github.com/anthropics/anthropic-sdk-go",
	"go.opencensus.io",
}

// moduleImports follows in-module imports of non-test files starting at dir
// and returns every import path reached, keyed by the importing package.
func moduleImports(t *testing.T, root, dir string) map[string]string {
	t.Helper()
	seen := map[string]bool{}
	found := map[string]string{}

	var walk func(pkgDir string)
	walk = func(pkgDir string) {
		if seen[pkgDir] {
			return
		}
		seen[pkgDir] = true

		entries, err := os.ReadDir(pkgDir)
		require.NoError(t, err)
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), filepath.Join(pkgDir, name), nil, parser.ImportsOnly)
			require.NoError(t, err)
			for _, imp := range f.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				require.NoError(t, err)
				if _, ok := found[path]; !ok {
					found[path] = pkgDir
				}
				if rel, ok := strings.CutPrefix(path, modulePath+"/"); ok {
					walk(filepath.Join(root, filepath.FromSlash(rel)))
				}
			}
		}
	}
	walk(dir)
	return found
}

func TestEngineImports_ExcludeHostedSDKs(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "go.mod"))

	imports := moduleImports(t, root, ".")

	assert.Contains(t, imports, modulePath+"/internal/llm")
	assert.NotContains(t, imports, modulePath+"/internal/config")
	assert.NotContains(t, imports, modulePath+"/internal/llm/provider")
	for path, from := range imports {
		for _, sdk := range hostedSDKs {
			assert.False(t, strings.HasPrefix(path, sdk), "%s imported from %s", path, from)
		}
	}
}
