package cmd

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/ldds/criteria"
)

var _ = Describe("loadCriteria()", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "ldds-cmd")
		Expect(err).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(body), 0600)).To(Succeed())
		return path
	}

	It("defaults to empty criteria", func() {
		c, err := loadCriteria("")
		Expect(err).To(Succeed())
		Expect(c.Equal(criteria.New())).To(BeTrue())
	})

	It("reads text and JSON files alike", func() {
		text, err := loadCriteria(write("goes.sc", "DRS_SINCE: now - 1 hour\nDCP_ADDRESS: CE31D030\n"))
		Expect(err).To(Succeed())

		json, err := loadCriteria(write("goes.JSON", `{"DRS_SINCE": "now - 1 hour", "DCP_ADDRESS": ["CE31D030"]}`))
		Expect(err).To(Succeed())

		Expect(text.Equal(json)).To(BeTrue())
	})
})
