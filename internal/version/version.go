// Package version reports which build of notepad is running.
package version

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Effective returns v, or a version derived from the Go build info when
// v was not set at link time.
func Effective(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// IsDevelopment reports whether v names an unreleased build.
func IsDevelopment(v string) bool {
	return v == "" || v == "unknown" || v == "devel" || strings.HasPrefix(v, "devel+")
}

// modulePath is where `go install` fetches notepad from.
const modulePath = "github.com/marcus/notepad"

// InstallCommand returns the go install command for release v, or for the
// latest release when v is a development build.
func InstallCommand(v string) string {
	if IsDevelopment(v) {
		v = "latest"
	}
	return "go install " + modulePath + "/cmd/notepad@" + v
}

// Details describes the running binary.
type Details struct {
	Version    string
	GoVersion  string
	Revision   string
	BuildTime  string
	Modified   bool
	Executable string
	// GoInstalled is set when Executable sits in a go install target dir.
	GoInstalled bool
}

// Describe gathers Details for the running binary. linked is the version
// set at link time, if any.
func Describe(linked string) Details {
	d := Details{Version: Effective(linked)}
	if info, ok := debug.ReadBuildInfo(); ok {
		d.fill(info)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		d.Executable = exe
		d.GoInstalled = inDirs(filepath.Dir(exe), goBinDirs(os.Getenv, os.UserHomeDir))
	}
	return d
}

func (d *Details) fill(info *debug.BuildInfo) {
	d.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			d.Revision = s.Value
		case "vcs.time":
			d.BuildTime = s.Value
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
}

// goBinDirs lists the directories go install writes binaries to: GOBIN,
// else each GOPATH entry's bin, else ~/go/bin.
func goBinDirs(getenv func(string) string, home func() (string, error)) []string {
	if gobin := getenv("GOBIN"); gobin != "" {
		return []string{gobin}
	}
	if gopath := getenv("GOPATH"); gopath != "" {
		var dirs []string
		for _, p := range filepath.SplitList(gopath) {
			dirs = append(dirs, filepath.Join(p, "bin"))
		}
		return dirs
	}
	if h, err := home(); err == nil {
		return []string{filepath.Join(h, "go", "bin")}
	}
	return nil
}

func inDirs(dir string, dirs []string) bool {
	dir = filepath.Clean(dir)
	for _, d := range dirs {
		if filepath.Clean(d) == dir {
			return true
		}
	}
	return false
}
