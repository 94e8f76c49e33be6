// Package build reports version metadata for kvc binaries. Release builds inject
// a JSON document through -ldflags; other builds fall back to what the Go
// toolchain recorded in the binary.
package build

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"slices"
)

// injected with -ldflags "-X github.com/amp-labs/kvcollection/build.injected=..."
var injected string //nolint:gochecknoglobals

// Info contains the build metadata of a kvc binary.
type Info struct {
	Version      string            `json:"version"`
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	if err := json.Unmarshal([]byte(js), &info); err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// FromBuildInfo converts the toolchain's record of a binary into Info.
func FromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{
		Version:      bi.Main.Version,
		GoVersion:    bi.GoVersion,
		Dependencies: make(map[string]string, len(bi.Deps)),
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			info.BuildTime = setting.Value
		}
	}

	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}

		info.Dependencies[dep.Path] = dep.Version
	}

	return info
}

// Current returns the injected metadata when present, otherwise the toolchain's.
func Current() Info {
	if info, ok := Parse(injected); ok {
		return *info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "(unknown)"}
	}

	return FromBuildInfo(bi)
}

// SortedDependencies returns the dependency module paths in ascending order.
func (i Info) SortedDependencies() []string {
	paths := make([]string, 0, len(i.Dependencies))

	for path := range i.Dependencies {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	return paths
}
