package criteria

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("Search criteria syntax error")

// SyntaxError reports the line a criteria document failed on.
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrSyntax, e.Reason)
	}

	return fmt.Sprintf("%s on line %d '%s': %s", ErrSyntax, e.Line, e.Text, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func ParseString(s string) (*SearchCriteria, error) {
	return Parse(strings.NewReader(s))
}

func ParseFile(path string) (*SearchCriteria, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads criteria in the LRGS text format. Nothing is returned unless
// every line parses.
func Parse(r io.Reader) (*SearchCriteria, error) {
	c := New()
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return nil, &SyntaxError{Line: lineNo, Text: line, Reason: err.Error()}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *SearchCriteria) parseLine(line string) error {
	// Some writers omit the space after the colon.
	if idx := strings.IndexByte(line, ':'); idx != -1 && idx+1 < len(line) && line[idx+1] != ' ' {
		line = line[:idx+1] + " " + line[idx+1:]
	}

	fields := strings.Fields(line)
	keyword := strings.ToUpper(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(line[len(fields[0]):])

	switch keyword {
	case "DRS_SINCE:", "LRGS_SINCE:", "DRSSINCE:", "LRGSSINCE:":
		c.LrgsSince = rest

	case "DRS_UNTIL:", "LRGS_UNTIL:", "DRSUNTIL:", "LRGSUNTIL:":
		c.LrgsUntil = rest

	case "DAPS_SINCE:", "DAPSSINCE:":
		c.DapsSince = rest

	case "DAPS_UNTIL:", "DAPSUNTIL:":
		c.DapsUntil = rest

	case "NETWORKLIST:", "NETWORK_LIST:":
		if len(args) < 1 {
			return errors.New("Expected network list name")
		}
		c.AddNetworkList(args[0])

	case "DCP_NAME:":
		if len(args) < 1 {
			return errors.New("Expected DCP name")
		}
		c.AddDcpName(args[0])

	case "DCP_ADDRESS:", "DCPADDRESS:":
		if len(args) < 1 {
			return errors.New("Expected DCP address")
		}
		addr, err := ParseDcpAddress(args[0])
		if err != nil {
			return err
		}
		c.AddDcpAddress(addr)

	case "ELECTRONIC_MAIL:":
		return parseFlagChar(args, &c.DomsatEmail)

	case "DAPS_STATUS:":
		return parseFlagChar(args, &c.DapsStatus)

	case "RETRANSMITTED:":
		return parseFlagChar(args, &c.Retransmitted)

	case "GLOB_BUL:":
		return parseFlagChar(args, &c.GlobalBul)

	case "DCP_BUL:":
		return parseFlagChar(args, &c.DcpBul)

	case "PARITY_ERROR:":
		return parseFlagChar(args, &c.ParityErrors)

	case "CHANNEL:":
		if len(args) < 1 {
			return errors.New("Expected channel number")
		}
		for _, tok := range args {
			if err := c.parseChannel(tok); err != nil {
				return err
			}
		}

	case "SOURCE:":
		if len(args) < 1 {
			return errors.New("Expected source name")
		}
		for _, name := range args {
			s, err := SourceByName(name)
			if err != nil {
				return err
			}
			c.AddSource(s)
		}

	case "SPACECRAFT:":
		if len(args) < 1 {
			return errors.New("Expected E or W")
		}
		switch strings.ToUpper(args[0])[0] {
		case 'E':
			c.Spacecraft = SpacecraftEast
		case 'W':
			c.Spacecraft = SpacecraftWest
		default:
			return fmt.Errorf("Bad SPACECRAFT value '%s'", args[0])
		}

	case "SEQUENCE:":
		if len(args) < 2 {
			return errors.New("Expected sequence start and end")
		}
		start, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("Bad sequence start '%s'", args[0])
		}
		end, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("Bad sequence end '%s'", args[1])
		}
		c.SeqStart, c.SeqEnd = start, end

	case "BAUD:":
		c.BaudRates = strings.Join(args, " ")

	case "ASCENDING_TIME:":
		return parseBool(keyword, args, &c.AscendingTimeOnly)

	case "RT_SETTLE_DELAY:":
		return parseBool(keyword, args, &c.RealtimeSettlingDelay)

	case "SINGLE:":
		return parseBool(keyword, args, &c.Single)

	default:
		return fmt.Errorf("Unrecognized criteria name '%s'", fields[0])
	}

	return nil
}

// parseChannel handles "n" and "|n" (OR), "&n" (AND) and "a-b", which adds
// an AND filter for every channel from a to b inclusive.
func (c *SearchCriteria) parseChannel(tok string) error {
	and := false
	t := tok
	switch t[0] {
	case '&':
		and = true
		t = t[1:]
	case '|':
		t = t[1:]
	}

	if hidx := strings.IndexByte(t, '-'); hidx > 0 {
		start, err1 := parseChannelNumber(t[:hidx])
		end, err2 := parseChannelNumber(t[hidx+1:])
		if err1 != nil || err2 != nil || end < start {
			return fmt.Errorf("Bad channel range '%s'", tok)
		}

		for ch := start; ch <= end; ch++ {
			c.AddChannel(ch, true)
		}

		return nil
	}

	ch, err := parseChannelNumber(t)
	if err != nil {
		return fmt.Errorf("Bad channel '%s'", tok)
	}

	c.AddChannel(ch, and)
	return nil
}

func parseChannelNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 || n > channelMask {
		return 0, fmt.Errorf("channel %d out of range", n)
	}

	return n, nil
}

func parseFlagChar(args []string, dst *FlagChar) error {
	if len(args) < 1 {
		return errors.New("Expected one of A, R, O, Y or N")
	}

	switch strings.ToUpper(args[0])[0] {
	case 'A', 'Y':
		*dst = Accept
	case 'R', 'N':
		*dst = Reject
	case 'O':
		*dst = Exclusive
	default:
		return fmt.Errorf("Expected one of A, R, O, Y or N, got '%s'", args[0])
	}

	return nil
}

func parseBool(keyword string, args []string, dst *bool) error {
	if len(args) < 1 {
		return fmt.Errorf("%s without true/false argument", strings.TrimSuffix(keyword, ":"))
	}

	b, err := parseBoolToken(args[0])
	if err != nil {
		return err
	}

	*dst = b
	return nil
}

func parseBoolToken(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("Expected true or false, got '%s'", s)
	}
}
