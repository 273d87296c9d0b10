package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFormatsCmd(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)
	assert.Equal(t, "text\njson\nbinary\nbin\n", out)
}

func TestDemoCmd(t *testing.T) {
	for _, format := range []string{"text", "binary"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			out, err := run(t, "demo", "--format", format, "--dir", dir, "--run-id", "r1", "--log-level", "error")
			require.NoError(t, err)
			assert.Contains(t, out, "v1 = {cat=400, dog=-0.743}")
			assert.Contains(t, out, `v2 = {cat=400, dog=-0.743, foo="foo"}`)
			assert.Contains(t, out, `v2 = {cat=400, dog=-0.743, foo="default"}`)
			assert.Contains(t, out, "Warning: reading pet from a previous version (100); foo not initialized.")
			assert.Contains(t, out, "Warning: reading pet from a future version (110); unsupported fields have been ignored.")

			entries, err := os.ReadDir(filepath.Join(dir, "r1"))
			require.NoError(t, err)
			assert.Len(t, entries, 4)
		})
	}
}

func TestDemoThenInspectAndKeys(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "demo", "-f", "bin", "-d", dir, "--run-id", "r2", "--log-level", "error")
	require.NoError(t, err)

	out, err := run(t, "inspect", "r2/test3.bin", "-d", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "pet")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "binary")

	out, err = run(t, "keys", "-d", dir, "--log-level", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"r2/test.bin", "r2/test2.bin", "r2/test3.bin", "r2/test4.bin"}, lines)
}

func TestInspect_MissingKey(t *testing.T) {
	_, err := run(t, "inspect", "nope.json", "-d", t.TempDir(), "--log-level", "error")
	assert.Error(t, err)
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "verskema.yaml")
	body := "format: xml\nstore:\n  kind: memory\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	_, err := run(t, "demo", "--config", cfgPath)
	assert.Error(t, err, "invalid format in config file must fail")

	require.NoError(t, os.WriteFile(cfgPath, []byte("format: text\nstore:\n  kind: memory\nlogging:\n  level: error\nlanguage: ja\n"), 0o600))
	out, err := run(t, "demo", "--config", cfgPath, "--format", "binary")
	require.NoError(t, err)
	assert.Contains(t, out, "binary")
	assert.Contains(t, out, "警告")
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "demo", "--store", "s3", "--log-level", "error")
	assert.Error(t, err)
	_, err = run(t, "formats", "--log-level", "loud")
	assert.Error(t, err)
}
