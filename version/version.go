// Package version holds build metadata injected with -ldflags:
//
//	go build -ldflags "-X github.com/jackzampolin/restyle/version.GitRelease=v0.1.0 \
//	  -X github.com/jackzampolin/restyle/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag, or "dev" for local builds.
	GitRelease = "dev"
	GitCommit  = "unknown"
	// GitCommitDate is the commit date in RFC 3339.
	GitCommitDate = "unknown"

	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
