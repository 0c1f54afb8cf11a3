// Package hostenv locates the DaVinci Resolve scripting installation on the
// local machine. It encapsulates all per-OS path knowledge: where the vendor
// installs the scripting support files, where the fusionscript library lives,
// and which environment variables override those defaults.
package hostenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable overrides honored by the vendor tooling.
const (
	EnvScriptAPI = "RESOLVE_SCRIPT_API"
	EnvScriptLib = "RESOLVE_SCRIPT_LIB"
)

// Paths holds the resolved locations of the host's scripting installation.
type Paths struct {
	API string // Scripting support root (Developer/Scripting).
	Lib string // fusionscript shared library.
}

// Modules returns the path to the scripting modules directory under API.
func (p Paths) Modules() string { return filepath.Join(p.API, "Modules") }

// Describe returns a multi-line, human-readable summary of the paths, used
// by the environment probe.
func (p Paths) Describe() string {
	return fmt.Sprintf("Scripting API: %s\nScripting lib: %s\nModules:       %s",
		p.API, p.Lib, p.Modules())
}

// Defaults returns the vendor's default install locations for the given
// GOOS, before any environment overrides.
func Defaults(goos string) Paths {
	switch goos {
	case "windows":
		programData := envOr("PROGRAMDATA", `C:\ProgramData`)
		programFiles := envOr("PROGRAMFILES", `C:\Program Files`)
		return Paths{
			API: filepath.Join(programData, "Blackmagic Design", "DaVinci Resolve", "Support", "Developer", "Scripting"),
			Lib: filepath.Join(programFiles, "Blackmagic Design", "DaVinci Resolve", "fusionscript.dll"),
		}
	case "darwin":
		return Paths{
			API: "/Library/Application Support/Blackmagic Design/DaVinci Resolve/Developer/Scripting",
			Lib: "/Applications/DaVinci Resolve/DaVinci Resolve.app/Contents/Libraries/Fusion/fusionscript.so",
		}
	default: // linux and everything else the host supports
		return Paths{
			API: "/opt/resolve/Developer/Scripting",
			Lib: "/opt/resolve/libs/Fusion/fusionscript.so",
		}
	}
}

// Discover resolves the scripting installation paths for the current OS,
// applying environment overrides, and verifies that the modules directory
// exists. A missing modules directory means the host is not installed (or
// installed somewhere unexpected) and is a terminal error.
func Discover() (Paths, error) {
	p := Lookup(runtime.GOOS)

	if _, err := os.Stat(p.Modules()); err != nil {
		return Paths{}, fmt.Errorf("hostenv: scripting modules path does not exist: %s (check your DaVinci Resolve installation)", p.Modules())
	}

	return p, nil
}

// Lookup resolves paths for the given GOOS with environment overrides
// applied but without touching the filesystem.
func Lookup(goos string) Paths {
	p := Defaults(goos)

	if api := os.Getenv(EnvScriptAPI); api != "" {
		p.API = api
	}
	if lib := os.Getenv(EnvScriptLib); lib != "" {
		p.Lib = lib
	}

	return p
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
