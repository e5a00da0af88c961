package criteria_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/ldds/criteria"
)

var _ = Describe("SearchCriteria", func() {
	Describe("New()", func() {
		It("starts with the server's defaults", func() {
			c := criteria.New()
			Expect(c.Spacecraft).To(Equal(criteria.SpacecraftAny))
			Expect(c.SeqStart).To(Equal(-1))
			Expect(c.SeqEnd).To(Equal(-1))
			Expect(c.ParityErrors).To(Equal(criteria.Accept))
			Expect(c.DomsatEmail).To(Equal(criteria.Unspecified))
			Expect(c.Sources()).To(BeEmpty())
		})
	})

	Describe("AddSource()", func() {
		It("ignores duplicates", func() {
			c := criteria.New()
			c.AddSource(criteria.SourceDrgs)
			c.AddSource(criteria.SourceNetDcp)
			c.AddSource(criteria.SourceDrgs)

			Expect(c.Sources()).To(Equal([]criteria.Source{criteria.SourceDrgs, criteria.SourceNetDcp}))
		})

		It("stops at the twelfth unique source", func() {
			c := criteria.New()
			for i := 0; i < criteria.MaxSources; i++ {
				c.AddSource(criteria.Source(0x100 + i))
			}
			full := c.Sources()
			Expect(full).To(HaveLen(criteria.MaxSources))

			c.AddSource(criteria.Source(0x100))
			c.AddSource(criteria.SourceGoesRandom)
			Expect(c.Sources()).To(Equal(full))
		})

		It("hands out a copy of the table", func() {
			c := criteria.New()
			c.AddSource(criteria.SourceDds)
			c.Sources()[0] = criteria.SourceOther
			Expect(c.Sources()).To(Equal([]criteria.Source{criteria.SourceDds}))
		})
	})

	Describe("Equal()", func() {
		build := func(addrs ...criteria.DcpAddress) *criteria.SearchCriteria {
			c := criteria.New()
			c.LrgsSince = "now - 1 hour"
			for _, a := range addrs {
				c.AddDcpAddress(a)
			}
			c.AddSource(criteria.SourceGoesSelfTimed)
			c.AddSource(criteria.SourceGoesRandom)
			return c
		}

		It("ignores the order of list fields", func() {
			a := build("CE31D030", "CE31D031", "CE31D032")
			b := build("CE31D032", "CE31D030", "CE31D031")
			Expect(a.Equal(b)).To(BeTrue())
		})

		It("compares scalar fields exactly", func() {
			a := build("CE31D030")
			b := build("CE31D030")
			b.LrgsSince = "now - 2 hours"
			Expect(a.Equal(b)).To(BeFalse())
		})

		It("compares list contents", func() {
			Expect(build("CE31D030").Equal(build("CE31D031"))).To(BeFalse())
			Expect(build("CE31D030").Equal(build("CE31D030", "CE31D031"))).To(BeFalse())
		})

		It("compares sources", func() {
			a := build("CE31D030")
			b := build("CE31D030")
			b.AddSource(criteria.SourceIridium)
			Expect(a.Equal(b)).To(BeFalse())
		})
	})

	Describe("Source", func() {
		It("maps names to codes", func() {
			Expect(criteria.SourceByName("goes_selftimed")).To(Equal(criteria.SourceGoesSelfTimed))
			Expect(criteria.SourceByName("HRIT")).To(Equal(criteria.SourceLrit))
			Expect(criteria.SourceByName("NOAAPORT")).To(Equal(criteria.Source(0x0C)))

			_, err := criteria.SourceByName("CARRIER_PIGEON")
			Expect(err).To(HaveOccurred())
		})

		It("names codes", func() {
			Expect(criteria.SourceLrit.Name()).To(Equal("LRIT"))
			Expect(criteria.SourceGoesRandom.Name()).To(Equal("GOES_RANDOM"))
			Expect(criteria.Source(0x20).Name()).To(BeEmpty())
		})
	})
})
