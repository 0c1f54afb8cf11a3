package hostenv

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsDarwin(t *testing.T) {
	p := Defaults("darwin")

	assert.Equal(t, "/Library/Application Support/Blackmagic Design/DaVinci Resolve/Developer/Scripting", p.API)
	assert.Equal(t, "/Applications/DaVinci Resolve/DaVinci Resolve.app/Contents/Libraries/Fusion/fusionscript.so", p.Lib)
}

func TestDefaultsLinux(t *testing.T) {
	p := Defaults("linux")

	assert.Equal(t, "/opt/resolve/Developer/Scripting", p.API)
	assert.Equal(t, "/opt/resolve/libs/Fusion/fusionscript.so", p.Lib)
	assert.Equal(t, filepath.Join("/opt/resolve/Developer/Scripting", "Modules"), p.Modules())
}

func TestDefaultsWindowsEnv(t *testing.T) {
	t.Setenv("PROGRAMDATA", filepath.Join("D:", "Data"))
	t.Setenv("PROGRAMFILES", filepath.Join("D:", "Programs"))

	p := Defaults("windows")

	assert.Contains(t, p.API, filepath.Join("D:", "Data"))
	assert.Contains(t, p.Lib, "fusionscript.dll")
}

func TestLookupOverrides(t *testing.T) {
	t.Setenv(EnvScriptAPI, "/custom/scripting")
	t.Setenv(EnvScriptLib, "/custom/fusionscript.so")

	p := Lookup("linux")

	assert.Equal(t, "/custom/scripting", p.API)
	assert.Equal(t, "/custom/fusionscript.so", p.Lib)
}

func TestDiscover(t *testing.T) {
	// Point the override at a real directory containing Modules/.
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Modules"), 0o755))
	t.Setenv(EnvScriptAPI, dir)

	p, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, dir, p.API)
}

func TestDiscoverMissingModules(t *testing.T) {
	t.Setenv(EnvScriptAPI, filepath.Join(t.TempDir(), "nope"))

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modules path does not exist")
}

func TestDescribe(t *testing.T) {
	p := Defaults(runtime.GOOS)
	out := p.Describe()

	assert.Contains(t, out, p.API)
	assert.Contains(t, out, p.Lib)
}
