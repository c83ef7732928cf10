// Package buildinfo reports which nodegraph build is running.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/nodegraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/nodegraph/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Other builds, such as go install, fall back to the module version and VCS
// revision that the toolchain embeds in the binary.
package buildinfo

import "runtime/debug"

var (
	// Version is the release version, "dev" when not set with ldflags.
	Version = "dev"

	// Commit is the git commit of the build, empty when not set with ldflags.
	Commit = ""
)

// Info identifies a build. It is shown by --version and /healthz and scopes
// the render cache, so renders from different builds never mix.
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// Current returns the running build.
func Current() Info {
	return resolve(Version, Commit, debug.ReadBuildInfo)
}

// resolve prefers the ldflags values and fills the gaps from read.
func resolve(version, commit string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: version, Commit: commit}
	bi, ok := read()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the build as "v1.2.0 (1a2b3c4)", with "-dirty" appended to
// the commit when the tree had local changes.
func (i Info) String() string {
	if i.Commit == "" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return i.Version + " (" + commit + ")"
}

// CacheScope returns the cache key prefix for artifacts rendered by this
// build of app, e.g. "nodegraph:v1.2.0@1a2b3c4:".
func (i Info) CacheScope(app string) string {
	scope := app + ":" + i.Version
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		scope += "@" + commit
	}
	return scope + ":"
}
