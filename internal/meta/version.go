package meta

import (
	"fmt"
	"runtime"
)

// Info describes the build context of an ldds binary.
//
// Most of it is set at build time by the Go linker, see the vars below.
type Info struct {
	Version   string
	Build     string
	Branch    string
	BuildTime string
	Platform  string
	GoVersion string
	GoTag     string

	// ProtocolVersion is the newest LDDS protocol version this build speaks.
	ProtocolVersion int
}

// These will be filled in using the linker -X flag
var (
	// Version as an arbitrary string
	Version = "dev"

	// Build is the Git sha from when we are building
	Build string

	// Branch is the Git branch that we are building from
	Branch string

	// BuildTimeUTC is the build time in UTC (year/month/day hour:min:sec)
	BuildTimeUTC string

	// GoTag is the Go build tags, see https://golang.org/pkg/go/build/#hdr-Build_Constraints
	GoTag string

	platform = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
)

// GetInfo returns an Info struct populated with the build information.
func GetInfo(protocolVersion int) Info {
	return Info{
		GoVersion:       runtime.Version(),
		Version:         Version,
		Build:           Build,
		Branch:          Branch,
		BuildTime:       BuildTimeUTC,
		GoTag:           GoTag,
		Platform:        platform,
		ProtocolVersion: protocolVersion,
	}
}

func (i Info) String() string {
	s := fmt.Sprintf("ldds %s (LDDS protocol %d)", i.Version, i.ProtocolVersion)

	if i.Build != "" {
		s += fmt.Sprintf("\nbuild:    %s %s %s", i.Build, i.Branch, i.BuildTime)
	}

	return s + fmt.Sprintf("\nplatform: %s %s", i.Platform, i.GoVersion)
}
