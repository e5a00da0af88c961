package criteria

import (
	"fmt"
	"strings"

	"github.com/luma/ldds/byteutil"
	"github.com/luma/ldds/protocol"
)

// Header is the comment block every serialized criteria document starts
// with.
const Header = "#\n# LRGS Search Criteria\n#\n"

// LegacyFilenameLength is the size of the filename field that prefixes the
// criteria text in a criteria message. Servers ignore its contents.
const LegacyFilenameLength = 50

const legacyFilename = "searchcrit"

// compatSources stand in for the GOES sub-sources on servers older than
// protocol version 12, when other sources would otherwise narrow the search.
var compatSources = []Source{SourceDomsat, SourceDrgs, SourceNoaaport, SourceLrit, SourceDds}

// Serialize renders the criteria for a server speaking version.
//
// Fields the version can't express are left out. needLocalFilter reports
// that the server will return a superset of what the criteria ask for, so
// the caller has to filter records itself.
func (c *SearchCriteria) Serialize(version int) (text string, needLocalFilter bool) {
	var b strings.Builder
	b.WriteString(Header)

	line := func(keyword string, value interface{}) {
		fmt.Fprintf(&b, "%s: %v\n", keyword, value)
	}

	if c.LrgsSince != "" {
		line("DRS_SINCE", c.LrgsSince)
	}
	if c.LrgsUntil != "" {
		line("DRS_UNTIL", c.LrgsUntil)
	}
	if c.DapsSince != "" {
		line("DAPS_SINCE", c.DapsSince)
	}
	if c.DapsUntil != "" {
		line("DAPS_UNTIL", c.DapsUntil)
	}

	for _, nl := range c.NetworkLists {
		line("NETWORKLIST", nl)
	}
	for _, name := range c.DcpNames {
		line("DCP_NAME", name)
	}
	for _, addr := range c.DcpAddresses {
		line("DCP_ADDRESS", addr)
	}

	flags := []struct {
		keyword string
		value   FlagChar
	}{
		{"ELECTRONIC_MAIL", c.DomsatEmail},
		{"DAPS_STATUS", c.DapsStatus},
		{"RETRANSMITTED", c.Retransmitted},
		{"GLOB_BUL", c.GlobalBul},
		{"DCP_BUL", c.DcpBul},
	}
	for _, f := range flags {
		if f.value != Unspecified {
			line(f.keyword, string(rune(f.value)))
		}
	}

	for _, ch := range c.channelLines() {
		line("CHANNEL", ch)
	}

	goesSubSource, nonGoes := false, false
	for _, s := range c.sources {
		name := s.Name()
		if name == "" {
			continue
		}

		if version < protocol.Version12 && s.IsGoesSubSource() {
			goesSubSource = true
			continue
		}

		if s.isNonGoes() {
			nonGoes = true
		}

		line("SOURCE", name)
	}

	if version < protocol.Version12 && goesSubSource {
		if nonGoes {
			for _, s := range compatSources {
				line("SOURCE", s.Name())
			}
		}

		needLocalFilter = true
	}

	if c.Spacecraft == SpacecraftEast || c.Spacecraft == SpacecraftWest {
		line("SPACECRAFT", string(rune(c.Spacecraft)))
	}

	if c.SeqStart != -1 && c.SeqEnd != -1 {
		line("SEQUENCE", fmt.Sprintf("%d %d", c.SeqStart, c.SeqEnd))
	}

	if strings.TrimSpace(c.BaudRates) != "" {
		line("BAUD", c.BaudRates)
	}

	if version >= protocol.Version9 && c.AscendingTimeOnly {
		line("ASCENDING_TIME", true)
	}
	if version >= protocol.Version9 && c.RealtimeSettlingDelay {
		line("RT_SETTLE_DELAY", true)
	}
	if version >= protocol.Version11 && c.Single {
		line("SINGLE", true)
	}

	if version >= protocol.Version12 && c.ParityErrors != Accept && c.ParityErrors != Unspecified {
		line("PARITY_ERROR", string(rune(c.ParityErrors)))
		needLocalFilter = true
	}

	return b.String(), needLocalFilter
}

// channelLines collapses a run of consecutive AND channels into a single
// "a-b" range, and otherwise writes one token per channel.
func (c *SearchCriteria) channelLines() []string {
	if len(c.Channels) == 0 {
		return nil
	}

	if len(c.Channels) > 1 && c.Channels[0]&ChannelAnd != 0 {
		start := c.Channels[0] & channelMask
		last := start
		run := true

		for _, ch := range c.Channels[1:] {
			if ch&ChannelAnd == 0 || ch&channelMask != last+1 {
				run = false
				break
			}
			last = ch & channelMask
		}

		if run {
			return []string{fmt.Sprintf("%d-%d", start, last)}
		}
	}

	out := make([]string, 0, len(c.Channels))
	for _, ch := range c.Channels {
		op := "|"
		if ch&ChannelAnd != 0 {
			op = "&"
		}
		out = append(out, fmt.Sprintf("%s%d", op, ch&channelMask))
	}

	return out
}

// Payload builds the body of a criteria message for version: the legacy
// filename field followed by the serialized criteria.
func (c *SearchCriteria) Payload(version int) (payload []byte, needLocalFilter bool) {
	text, needLocalFilter := c.Serialize(version)

	payload = make([]byte, LegacyFilenameLength+len(text))
	byteutil.PutCString(legacyFilename, payload, 0, LegacyFilenameLength)
	copy(payload[LegacyFilenameLength:], text)

	return payload, needLocalFilter
}
