package criteria_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/luma/ldds/criteria"
)

var _ = Describe("JSON", func() {
	Describe("LoadJSON()", func() {
		It("reads keyword keys", func() {
			c, err := criteria.LoadJSON([]byte(`{
				"DRS_SINCE": "now - 1 hour",
				"DRS_UNTIL": "now",
				"DCP_ADDRESS": ["CE31D030", "CE31D031"],
				"SOURCE": ["GOES_SELFTIMED", "GOES_RANDOM"],
				"CHANNEL": ["&5", 7],
				"SEQUENCE": [1, 5],
				"SINGLE": true
			}`))
			Expect(err).To(Succeed())

			Expect(c.LrgsSince).To(Equal("now - 1 hour"))
			Expect(c.LrgsUntil).To(Equal("now"))
			Expect(c.DcpAddresses).To(Equal([]criteria.DcpAddress{"CE31D030", "CE31D031"}))
			Expect(c.Sources()).To(Equal([]criteria.Source{criteria.SourceGoesSelfTimed, criteria.SourceGoesRandom}))
			Expect(c.Channels).To(Equal([]int{5 | criteria.ChannelAnd, 7}))
			Expect(c.SeqStart).To(Equal(1))
			Expect(c.SeqEnd).To(Equal(5))
			Expect(c.Single).To(BeTrue())
		})

		It("rejects unknown keys", func() {
			_, err := criteria.LoadJSON([]byte(`{"DRS_SINCE": "now", "COLOUR": "blue"}`))
			Expect(errors.Is(err, criteria.ErrSyntax)).To(BeTrue())
		})

		It("rejects documents that aren't objects", func() {
			_, err := criteria.LoadJSON([]byte(`["DRS_SINCE"]`))
			Expect(errors.Is(err, criteria.ErrSyntax)).To(BeTrue())

			_, err = criteria.LoadJSON([]byte(`{"DRS_SINCE": `))
			Expect(errors.Is(err, criteria.ErrSyntax)).To(BeTrue())
		})

		It("rejects bad values", func() {
			_, err := criteria.LoadJSON([]byte(`{"DCP_ADDRESS": ["CE31"]}`))
			Expect(errors.Is(err, criteria.ErrSyntax)).To(BeTrue())
		})
	})

	Describe("MarshalJSON()", func() {
		It("writes what LoadJSON reads", func() {
			c, err := criteria.ParseString(sampleCriteria)
			Expect(err).To(Succeed())
			c.SeqStart, c.SeqEnd = 3, 4
			c.AddDcpName("BIGCREEK")

			data, err := c.MarshalJSON()
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(data, "DRS_SINCE").String()).To(Equal("now - 1 day"))
			Expect(gjson.GetBytes(data, "CHANNEL.0").String()).To(Equal("5-8"))
			Expect(gjson.GetBytes(data, "SOURCE.#").Int()).To(Equal(int64(2)))
			Expect(gjson.GetBytes(data, "PARITY_ERROR").String()).To(Equal("R"))

			again, err := criteria.LoadJSON(data)
			Expect(err).To(Succeed())
			Expect(again.Equal(c)).To(BeTrue())
		})

		It("writes an empty object for empty criteria", func() {
			data, err := criteria.New().MarshalJSON()
			Expect(err).To(Succeed())
			Expect(string(data)).To(Equal("{}"))
		})
	})
})
