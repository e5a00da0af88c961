package protocol

import "strconv"

// ErrorCode is the <derrno> of a server error report.
type ErrorCode int

const (
	DSUCCESS         ErrorCode = 0
	DNOFLAG          ErrorCode = 1
	DDUMMY           ErrorCode = 2
	DLONGLIST        ErrorCode = 3
	DARCERROR        ErrorCode = 4
	DNOCONFIG        ErrorCode = 5
	DNOSRCHSHM       ErrorCode = 6
	DNODIRLOCK       ErrorCode = 7
	DNODIRFILE       ErrorCode = 8
	DNOMSGFILE       ErrorCode = 9
	DDIRSEMERR       ErrorCode = 10
	DMSGTIMEOUT      ErrorCode = 11
	DNONETLIST       ErrorCode = 12
	DNOSRCHCRIT      ErrorCode = 13
	DBADSINCE        ErrorCode = 14
	DBADUNTIL        ErrorCode = 15
	DBADNLIST        ErrorCode = 16
	DBADADDR         ErrorCode = 17
	DBADEMAIL        ErrorCode = 18
	DBADRTRAN        ErrorCode = 19
	DNLISTXCD        ErrorCode = 20
	DADDRXCD         ErrorCode = 21
	DNOLRGSLAST      ErrorCode = 22
	DWRONGMSG        ErrorCode = 23
	DNOMOREPROC      ErrorCode = 24
	DBADDAPSSTAT     ErrorCode = 25
	DBADTIMEOUT      ErrorCode = 26
	DCANTIOCTL       ErrorCode = 27
	DUNTILDRS        ErrorCode = 28
	DBADCHANNEL      ErrorCode = 29
	DCANTOPENSER     ErrorCode = 30
	DBADDCPNAME      ErrorCode = 31
	DNONAMELIST      ErrorCode = 32
	DIDXFILEIO       ErrorCode = 33
	DBADSEARCHCRIT   ErrorCode = 34
	DUNTIL           ErrorCode = 35
	DJAVAIF          ErrorCode = 36
	DNOTATTACHED     ErrorCode = 37
	DBADKEYWORD      ErrorCode = 38
	DPARSEERROR      ErrorCode = 39
	DNONAMELISTSEM   ErrorCode = 40
	DBADINPUTFILE    ErrorCode = 41
	DARCFILEIO       ErrorCode = 42
	DNOARCFILE       ErrorCode = 43
	DICPIOCTL        ErrorCode = 44
	DICPIOERR        ErrorCode = 45
	DINVALIDUSER     ErrorCode = 46
	DDDSAUTHFAILED   ErrorCode = 47
	DDDSINTERNAL     ErrorCode = 48
	DDDSFATAL        ErrorCode = 49
	DNOSUCHSOURCE    ErrorCode = 50
	DALREADYATTACHED ErrorCode = 51
	DNOSUCHFILE      ErrorCode = 52
	DTOOMANYDCPS     ErrorCode = 53
	DBADPASSWORD     ErrorCode = 54
	DSTRONGREQUIRED  ErrorCode = 55

	DMAXERROR = DSTRONGREQUIRED
)

type errorCodeInfo struct {
	name        string
	description string
}

// Read only after init, safe to share between sessions.
var errorCodes = [DMAXERROR + 1]errorCodeInfo{
	DSUCCESS:         {"DSUCCESS", "Success."},
	DNOFLAG:          {"DNOFLAG", "Could not find start of message flag."},
	DDUMMY:           {"DDUMMY", "Message found (and loaded) but it's a dummy."},
	DLONGLIST:        {"DLONGLIST", "Network list was too long to upload."},
	DARCERROR:        {"DARCERROR", "Error reading archive file."},
	DNOCONFIG:        {"DNOCONFIG", "Cannot attach to configuration shared memory"},
	DNOSRCHSHM:       {"DNOSRCHSHM", "Cannot attach to search shared memory"},
	DNODIRLOCK:       {"DNODIRLOCK", "Could not get ID of directory lock semaphore"},
	DNODIRFILE:       {"DNODIRFILE", "Could not open message directory file"},
	DNOMSGFILE:       {"DNOMSGFILE", "Could not open message storage file"},
	DDIRSEMERR:       {"DDIRSEMERR", "Error on directory lock semaphore"},
	DMSGTIMEOUT:      {"DMSGTIMEOUT", "Timeout waiting for new messages"},
	DNONETLIST:       {"DNONETLIST", "Could not open network list file"},
	DNOSRCHCRIT:      {"DNOSRCHCRIT", "Could not open search criteria file"},
	DBADSINCE:        {"DBADSINCE", "Bad since time in search criteria file"},
	DBADUNTIL:        {"DBADUNTIL", "Bad until time in search criteria file"},
	DBADNLIST:        {"DBADNLIST", "Bad network list in search criteria file"},
	DBADADDR:         {"DBADADDR", "Bad DCP address in search criteria file"},
	DBADEMAIL:        {"DBADEMAIL", "Bad electronic mail value in search criteria file"},
	DBADRTRAN:        {"DBADRTRAN", "Bad retransmitted value in search criteria file"},
	DNLISTXCD:        {"DNLISTXCD", "Number of network lists exceeded"},
	DADDRXCD:         {"DADDRXCD", "Number of DCP addresses exceeded"},
	DNOLRGSLAST:      {"DNOLRGSLAST", "Could not open last read access file"},
	DWRONGMSG:        {"DWRONGMSG", "Message doesn't correspond with directory entry"},
	DNOMOREPROC:      {"DNOMOREPROC", "Can't attach: No more processes allowed"},
	DBADDAPSSTAT:     {"DBADDAPSSTAT", "Bad DAPS status specified in search criteria."},
	DBADTIMEOUT:      {"DBADTIMEOUT", "Bad TIMEOUT value in search crit file."},
	DCANTIOCTL:       {"DCANTIOCTL", "Cannot ioctl() the open serial port."},
	DUNTILDRS:        {"DUNTILDRS", "Specified 'until' time reached"},
	DBADCHANNEL:      {"DBADCHANNEL", "Bad GOES channel number specified in search crit"},
	DCANTOPENSER:     {"DCANTOPENSER", "Can't open specified serial port."},
	DBADDCPNAME:      {"DBADDCPNAME", "Unrecognized DCP name in search criteria"},
	DNONAMELIST:      {"DNONAMELIST", "Cannot attach to name list shared memory."},
	DIDXFILEIO:       {"DIDXFILEIO", "Index file I/O error"},
	DBADSEARCHCRIT:   {"DBADSEARCHCRIT", "Bad search-criteria data"},
	DUNTIL:           {"DUNTIL", "Specified 'until' time reached"},
	DJAVAIF:          {"DJAVAIF", "Error in Java - Native Interface"},
	DNOTATTACHED:     {"DNOTATTACHED", "Not attached to LRGS native interface"},
	DBADKEYWORD:      {"DBADKEYWORD", "Bad keyword"},
	DPARSEERROR:      {"DPARSEERROR", "Error parsing input file"},
	DNONAMELISTSEM:   {"DNONAMELISTSEM", "Cannot attach to name list semaphore."},
	DBADINPUTFILE:    {"DBADINPUTFILE", "Cannot open or read specified input file"},
	DARCFILEIO:       {"DARCFILEIO", "Archive file I/O error"},
	DNOARCFILE:       {"DNOARCFILE", "Archive file not opened"},
	DICPIOCTL:        {"DICPIOCTL", "Error on ICP188 ioctl call"},
	DICPIOERR:        {"DICPIOERR", "Error on ICP188 I/O call"},
	DINVALIDUSER:     {"DINVALIDUSER", "Invalid DDS User"},
	DDDSAUTHFAILED:   {"DDDSAUTHFAILED", "DDS Authentication failed"},
	DDDSINTERNAL:     {"DDDSINTERNAL", "DDS Internal Error (connection will close)"},
	DDDSFATAL:        {"DDDSFATAL", "DDS Fatal Server Error (retry later)"},
	DNOSUCHSOURCE:    {"DNOSUCHSOURCE", "No such data source"},
	DALREADYATTACHED: {"DALREADYATTACHED", "User already attached (mult disallowed)"},
	DNOSUCHFILE:      {"DNOSUCHFILE", "No such file"},
	DTOOMANYDCPS:     {"DTOOMANYDCPS", "Too many DCPs for real-time stream"},
	DBADPASSWORD:     {"DBADPASSWORD", "Password does not meet local requirements."},
	DSTRONGREQUIRED:  {"DSTRONGREQUIRED", "Server requires strong encryption algorithm"},
}

// Known reports whether c is in the server's error code table.
func (c ErrorCode) Known() bool {
	return c >= DSUCCESS && c <= DMAXERROR
}

func (c ErrorCode) Name() string {
	if !c.Known() {
		return "UNKNOWN"
	}

	return errorCodes[c].name
}

func (c ErrorCode) Description() string {
	if !c.Known() {
		return "Unknown server error code " + strconv.Itoa(int(c))
	}

	return errorCodes[c].description
}

func (c ErrorCode) String() string {
	return c.Name() + "-" + strconv.Itoa(int(c))
}

// UntilReached reports whether c marks the graceful end of a retrieval.
func (c ErrorCode) UntilReached() bool {
	return c == DUNTIL || c == DUNTILDRS
}
