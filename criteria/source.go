package criteria

import (
	"fmt"
	"strings"
)

// Source is a message source code as used by DCP message flags. The low
// sources live in the 0x1C mask, the GOES sub-sources are message-type bits.
type Source int

const (
	SourceDomsat   Source = 0x00
	SourceNetDcp   Source = 0x04
	SourceDrgs     Source = 0x08
	SourceNoaaport Source = 0x0C
	SourceLrit     Source = 0x10
	SourceDds      Source = 0x14
	SourceIridium  Source = 0x18
	SourceOther    Source = 0x1C

	SourceGoesSelfTimed Source = 0x10000
	SourceGoesRandom    Source = 0x20000
)

const (
	sourceMask  = 0x1C
	msgTypeMask = 0x3A000
)

// MaxSources is the size of the server's source table.
const MaxSources = 12

var sourcesByName = map[string]Source{
	"DOMSAT":         SourceDomsat,
	"NETDCP":         SourceNetDcp,
	"DRGS":           SourceDrgs,
	"NOAAPORT":       SourceNoaaport,
	"LRIT":           SourceLrit,
	"HRIT":           SourceLrit,
	"DDS":            SourceDds,
	"IRIDIUM":        SourceIridium,
	"OTHER":          SourceOther,
	"GOES_SELFTIMED": SourceGoesSelfTimed,
	"GOES_RANDOM":    SourceGoesRandom,
}

var sourceNames = map[Source]string{
	SourceDomsat:   "DOMSAT",
	SourceNetDcp:   "NETDCP",
	SourceDrgs:     "DRGS",
	SourceNoaaport: "NOAAPORT",
	SourceLrit:     "LRIT",
	SourceDds:      "DDS",
	SourceIridium:  "IRIDIUM",
	SourceOther:    "OTHER",
}

// SourceByName looks a source up by its criteria keyword, case insensitively.
func SourceByName(name string) (Source, error) {
	s, ok := sourcesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("Unknown source name '%s'", name)
	}

	return s, nil
}

// Name returns the keyword the server expects for s, or "" if s names no
// source.
func (s Source) Name() string {
	switch Source(int(s) & msgTypeMask) {
	case SourceGoesSelfTimed:
		return "GOES_SELFTIMED"
	case SourceGoesRandom:
		return "GOES_RANDOM"
	}

	if int(s)&^sourceMask != 0 {
		return ""
	}

	return sourceNames[Source(int(s)&sourceMask)]
}

func (s Source) String() string {
	if n := s.Name(); n != "" {
		return n
	}

	return fmt.Sprintf("Source(%#x)", int(s))
}

// IsGoesSubSource is true for the sources added in protocol version 12.
func (s Source) IsGoesSubSource() bool {
	return s == SourceGoesSelfTimed || s == SourceGoesRandom
}

// isNonGoes is true for sources that never carry GOES messages.
func (s Source) isNonGoes() bool {
	return s == SourceNetDcp || s == SourceIridium || s == SourceOther
}
