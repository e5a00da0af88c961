package criteria

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// LoadJSON reads criteria from a JSON object whose keys are the text
// keywords without their colon, e.g.
//
//	{"DRS_SINCE": "now - 1 hour", "DCP_ADDRESS": ["CE31D030"], "SOURCE": ["GOES_SELFTIMED"]}
//
// Any value may be an array, which is the same as repeating the keyword.
// SEQUENCE takes a two element array.
func LoadJSON(data []byte) (*SearchCriteria, error) {
	if !gjson.ValidBytes(data) {
		return nil, &SyntaxError{Reason: "invalid JSON"}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &SyntaxError{Reason: "expected a JSON object"}
	}

	c := New()

	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		keyword := strings.ToUpper(key.String())

		for _, v := range jsonValues(keyword, value) {
			line := keyword + ": " + v
			if perr := c.parseLine(line); perr != nil {
				err = &SyntaxError{Text: line, Reason: perr.Error()}
				return false
			}
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func LoadJSONFile(path string) (*SearchCriteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return LoadJSON(data)
}

// jsonValues flattens value into the text values of one or more criteria
// lines.
func jsonValues(keyword string, value gjson.Result) []string {
	if !value.IsArray() {
		return []string{value.String()}
	}

	items := value.Array()
	if keyword == "SEQUENCE" || keyword == "BAUD" {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.String())
		}
		return []string{strings.Join(parts, " ")}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}

	return out
}

// MarshalJSON writes the criteria in the form LoadJSON reads. Every
// populated field is written regardless of protocol version.
func (c *SearchCriteria) MarshalJSON() ([]byte, error) {
	doc := []byte("{}")

	var err error
	set := func(key string, value interface{}) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, key, value)
	}

	if c.LrgsSince != "" {
		set("DRS_SINCE", c.LrgsSince)
	}
	if c.LrgsUntil != "" {
		set("DRS_UNTIL", c.LrgsUntil)
	}
	if c.DapsSince != "" {
		set("DAPS_SINCE", c.DapsSince)
	}
	if c.DapsUntil != "" {
		set("DAPS_UNTIL", c.DapsUntil)
	}

	if len(c.NetworkLists) > 0 {
		set("NETWORKLIST", c.NetworkLists)
	}
	if len(c.DcpNames) > 0 {
		set("DCP_NAME", c.DcpNames)
	}
	if len(c.DcpAddresses) > 0 {
		set("DCP_ADDRESS", c.DcpAddresses)
	}

	flags := []struct {
		key   string
		value FlagChar
	}{
		{"ELECTRONIC_MAIL", c.DomsatEmail},
		{"DAPS_STATUS", c.DapsStatus},
		{"RETRANSMITTED", c.Retransmitted},
		{"GLOB_BUL", c.GlobalBul},
		{"DCP_BUL", c.DcpBul},
	}
	for _, f := range flags {
		if f.value != Unspecified {
			set(f.key, string(rune(f.value)))
		}
	}
	if c.ParityErrors != Accept && c.ParityErrors != Unspecified {
		set("PARITY_ERROR", string(rune(c.ParityErrors)))
	}

	if channels := c.channelLines(); len(channels) > 0 {
		set("CHANNEL", channels)
	}

	if len(c.sources) > 0 {
		names := make([]string, 0, len(c.sources))
		for _, s := range c.sources {
			if n := s.Name(); n != "" {
				names = append(names, n)
			}
		}
		set("SOURCE", names)
	}

	if c.Spacecraft == SpacecraftEast || c.Spacecraft == SpacecraftWest {
		set("SPACECRAFT", string(rune(c.Spacecraft)))
	}
	if c.SeqStart != -1 && c.SeqEnd != -1 {
		set("SEQUENCE", []int{c.SeqStart, c.SeqEnd})
	}
	if strings.TrimSpace(c.BaudRates) != "" {
		set("BAUD", c.BaudRates)
	}

	if c.AscendingTimeOnly {
		set("ASCENDING_TIME", true)
	}
	if c.RealtimeSettlingDelay {
		set("RT_SETTLE_DELAY", true)
	}
	if c.Single {
		set("SINGLE", true)
	}

	if err != nil {
		return nil, fmt.Errorf("Failed to encode search criteria: %w", err)
	}

	return doc, nil
}
