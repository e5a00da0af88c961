package dcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/luma/ldds/byteutil"
)

// Header field offsets of a GOES DCP record.
const (
	AddressOffset         = 0
	TimeOffset            = 8
	FailureCodeOffset     = 19
	SignalStrengthOffset  = 20
	FrequencyOffsetOffset = 22
	ModulationIndexOffset = 24
	DataQualityOffset     = 25
	ChannelOffset         = 26
	SpacecraftOffset      = 29
	DrgsCodeOffset        = 30
	DataLengthOffset      = 32
	DataOffset            = 37

	AddressLength    = 8
	DataLengthLength = 5
)

// MaxDataLength is the largest amount of data the LRGS stores for one
// message.
const MaxDataLength = 99800

// badFailureCodes mark messages received with errors.
const badFailureCodes = "?MTUBIQW"

// timeLayout is YYDDDHHMMSS.
const timeLayout = "06002150405"

// Record is one DCP message as streamed by the server: a fixed header
// followed by the message data. It is a view into the block it was split
// from.
type Record []byte

// Header returns the fixed header, or the whole record if it is shorter.
func (r Record) Header() []byte {
	if len(r) < DataOffset {
		return r
	}

	return r[:DataOffset]
}

// Data returns the message data following the header.
func (r Record) Data() []byte {
	if len(r) <= DataOffset {
		return nil
	}

	return r[DataOffset:]
}

func (r Record) Address() string {
	if len(r) < AddressLength {
		return ""
	}

	return string(r[AddressOffset : AddressOffset+AddressLength])
}

// Time is when the message was received by the DAPS, always UTC.
func (r Record) Time() (time.Time, error) {
	f, err := r.field(TimeOffset, len(timeLayout))
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.Parse(timeLayout, string(f))
	if err != nil {
		return time.Time{}, fmt.Errorf("Invalid record time '%s': %w", f, err)
	}

	return t, nil
}

// FailureCode is 'G' for a good message, '?' for a parity error and one of
// the other bad codes for a message received with errors.
func (r Record) FailureCode() byte {
	return r.char(FailureCodeOffset, '-')
}

// HasErrors is true when the failure code marks the message as bad.
func (r Record) HasErrors() bool {
	return strings.IndexByte(badFailureCodes, r.FailureCode()) >= 0
}

// SignalStrength is in dBm.
func (r Record) SignalStrength() (int, error) {
	return byteutil.ParseInt(r, SignalStrengthOffset, 2)
}

// FrequencyOffset is a sign followed by a hex digit, in units of 50Hz.
func (r Record) FrequencyOffset() (int, error) {
	f, err := r.field(FrequencyOffsetOffset, 2)
	if err != nil {
		return 0, err
	}

	v := byteutil.FromHexChar(f[1])
	if v < 0 {
		return 0, fmt.Errorf("%w: '%s'", byteutil.ErrFieldNotNumeric, f)
	}

	if f[0] == '-' {
		return -v, nil
	}

	return v, nil
}

func (r Record) ModulationIndex() byte {
	return r.char(ModulationIndexOffset, 'U')
}

func (r Record) DataQuality() byte {
	return r.char(DataQualityOffset, 'U')
}

// Channel is the GOES channel. Leading spaces read as zeros.
func (r Record) Channel() (int, error) {
	return byteutil.ParseInt(r, ChannelOffset, 3)
}

func (r Record) Spacecraft() byte {
	return r.char(SpacecraftOffset, 'U')
}

func (r Record) DrgsCode() string {
	f, err := r.field(DrgsCodeOffset, 2)
	if err != nil {
		return "xx"
	}

	return string(f)
}

// DataLength is the length declared in the header, not len(Data()).
func (r Record) DataLength() (int, error) {
	return byteutil.ParseInt(r, DataLengthOffset, DataLengthLength)
}

func (r Record) String() string {
	return string(r)
}

func (r Record) field(offset, n int) ([]byte, error) {
	if offset+n > len(r) {
		return nil, fmt.Errorf("%w: %d+%d of %d", byteutil.ErrFieldOutOfRange, offset, n, len(r))
	}

	return r[offset : offset+n], nil
}

func (r Record) char(offset int, missing byte) byte {
	if offset >= len(r) {
		return missing
	}

	return r[offset]
}
