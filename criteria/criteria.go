// Package criteria models the search criteria a DDS client submits to pick
// which DCP messages the server streams back.
//
// Criteria can be read from the line-oriented text format the LRGS uses
// (Parse, ParseFile), or from a JSON document (LoadJSON). Serialize renders
// them for a given protocol version, dropping or translating whatever that
// version cannot express.
package criteria

import (
	"fmt"
	"sort"

	"github.com/luma/ldds/protocol"
)

// ChannelAnd marks a channel entry as an AND filter rather than an OR filter.
const ChannelAnd = 0x200

const channelMask = 0x1FF

// FlagChar is the policy for one of the message flag filters.
type FlagChar byte

const (
	Unspecified FlagChar = 0
	Accept      FlagChar = 'A'
	Reject      FlagChar = 'R'
	Exclusive   FlagChar = 'O'
)

// Spacecraft selects which GOES satellite messages must come from.
type Spacecraft byte

const (
	SpacecraftEast Spacecraft = 'E'
	SpacecraftWest Spacecraft = 'W'
	SpacecraftAny  Spacecraft = 'A'
)

// DcpAddressLength is the length of a DCP address in characters.
const DcpAddressLength = 8

type DcpAddress string

func ParseDcpAddress(s string) (DcpAddress, error) {
	if len(s) != DcpAddressLength {
		return "", fmt.Errorf("DCP address '%s' must be %d characters", s, DcpAddressLength)
	}

	return DcpAddress(s), nil
}

// SearchCriteria is the filter sent to the server before streaming. The
// zero value is not usable; create one with New.
type SearchCriteria struct {
	LrgsSince string
	LrgsUntil string
	DapsSince string
	DapsUntil string

	NetworkLists []string
	DcpNames     []string
	DcpAddresses []DcpAddress

	// Channels holds channel numbers, OR'ed with ChannelAnd for AND filters.
	Channels []int

	Spacecraft Spacecraft
	SeqStart   int
	SeqEnd     int
	BaudRates  string

	DomsatEmail   FlagChar
	Retransmitted FlagChar
	DapsStatus    FlagChar
	GlobalBul     FlagChar
	DcpBul        FlagChar
	ParityErrors  FlagChar

	AscendingTimeOnly     bool
	RealtimeSettlingDelay bool
	Single                bool

	sources []Source
}

func New() *SearchCriteria {
	return &SearchCriteria{
		Spacecraft:   SpacecraftAny,
		SeqStart:     -1,
		SeqEnd:       -1,
		ParityErrors: Accept,
	}
}

// AddSource appends code to the source table. It is a no-op when code is
// already present or the table already holds MaxSources entries.
func (c *SearchCriteria) AddSource(code Source) {
	if len(c.sources) >= MaxSources {
		return
	}

	for _, s := range c.sources {
		if s == code {
			return
		}
	}

	c.sources = append(c.sources, code)
}

// Sources returns the source table in insertion order.
func (c *SearchCriteria) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// AddChannel adds an OR channel filter, or an AND one if and is set.
func (c *SearchCriteria) AddChannel(channel int, and bool) {
	if and {
		channel |= ChannelAnd
	}

	c.Channels = append(c.Channels, channel)
}

func (c *SearchCriteria) AddDcpAddress(addr DcpAddress) {
	c.DcpAddresses = append(c.DcpAddresses, addr)
}

func (c *SearchCriteria) AddDcpName(name string) {
	c.DcpNames = append(c.DcpNames, name)
}

func (c *SearchCriteria) AddNetworkList(name string) {
	c.NetworkLists = append(c.NetworkLists, name)
}

// Equal compares two criteria field by field. List fields are compared as
// sets, so insertion order doesn't matter.
func (c *SearchCriteria) Equal(other *SearchCriteria) bool {
	if c == nil || other == nil {
		return c == other
	}

	if c.LrgsSince != other.LrgsSince ||
		c.LrgsUntil != other.LrgsUntil ||
		c.DapsSince != other.DapsSince ||
		c.DapsUntil != other.DapsUntil ||
		c.BaudRates != other.BaudRates {
		return false
	}

	if c.AscendingTimeOnly != other.AscendingTimeOnly ||
		c.RealtimeSettlingDelay != other.RealtimeSettlingDelay ||
		c.Single != other.Single ||
		c.SeqStart != other.SeqStart ||
		c.SeqEnd != other.SeqEnd ||
		c.Spacecraft != other.Spacecraft {
		return false
	}

	if c.DomsatEmail != other.DomsatEmail ||
		c.Retransmitted != other.Retransmitted ||
		c.DapsStatus != other.DapsStatus ||
		c.GlobalBul != other.GlobalBul ||
		c.DcpBul != other.DcpBul ||
		c.ParityErrors != other.ParityErrors {
		return false
	}

	return sameSet(c.NetworkLists, other.NetworkLists) &&
		sameSet(c.DcpNames, other.DcpNames) &&
		sameSet(c.DcpAddresses, other.DcpAddresses) &&
		sameSet(c.Channels, other.Channels) &&
		sameSet(c.sources, other.sources)
}

func (c *SearchCriteria) String() string {
	text, _ := c.Serialize(protocol.LatestVersion)
	return text
}

// sameSet compares a and b as multisets.
func sameSet[T string | DcpAddress | int | Source](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	as := append([]T(nil), a...)
	bs := append([]T(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })

	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}

	return true
}
