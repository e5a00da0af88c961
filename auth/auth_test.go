package auth_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/ldds/auth"
	"github.com/luma/ldds/byteutil"
)

var _ = Describe("auth", func() {
	const (
		username = "test_user"
		password = "test_pass"
		timeT    = int64(1650000000)
	)

	Describe("PreliminaryDigest()", func() {
		It("is SHA-1 of the doubled username and password", func() {
			digest := auth.PreliminaryDigest(username, password)
			Expect(byteutil.HexString(digest[:])).To(Equal("78F0C690F6438D41BAE4F56436C7A957AA976F69"))
		})

		It("is deterministic", func() {
			Expect(auth.PreliminaryDigest(username, password)).To(Equal(auth.PreliminaryDigest(username, password)))
			Expect(auth.PreliminaryDigest(username, password)).NotTo(Equal(auth.PreliminaryDigest(username, "other")))
		})
	})

	Describe("Token()", func() {
		digest := auth.PreliminaryDigest(username, password)

		It("matches the known SHA-1 authenticator", func() {
			token, err := auth.Token(username, digest, timeT, auth.SHA1)
			Expect(err).To(Succeed())
			Expect(token).To(Equal("C91F758CDED80910C0C4FC11CBEB31395AABB9B4"))
		})

		It("matches the known SHA-256 authenticator", func() {
			token, err := auth.Token(username, digest, timeT, auth.SHA256)
			Expect(err).To(Succeed())
			Expect(token).To(Equal("850D6D0BA8D5C00BFF01D507E9C50B3E639C9C0EC93B1E2A84BE2673581439DF"))
		})

		It("changes with the time", func() {
			a, err := auth.Token(username, digest, timeT, auth.SHA1)
			Expect(err).To(Succeed())
			b, err := auth.Token(username, digest, timeT+1, auth.SHA1)
			Expect(err).To(Succeed())
			Expect(a).NotTo(Equal(b))
		})

		It("rejects unknown algorithms", func() {
			_, err := auth.Token(username, digest, timeT, auth.HashAlgorithm(7))
			Expect(errors.Is(err, auth.ErrUnsupportedAlgorithm)).To(BeTrue())
		})
	})

	Describe("ParseHashAlgorithm()", func() {
		It("accepts the two supported algorithms", func() {
			Expect(auth.ParseHashAlgorithm("SHA-256")).To(Equal(auth.SHA256))
			Expect(auth.ParseHashAlgorithm("sha1")).To(Equal(auth.SHA1))
		})

		It("rejects anything else", func() {
			_, err := auth.ParseHashAlgorithm("sha384")
			Expect(errors.Is(err, auth.ErrUnsupportedAlgorithm)).To(BeTrue())
		})
	})

	Describe("Hello()", func() {
		It("formats user, UTC time, token and version", func() {
			t := time.Unix(timeT, 0).In(time.FixedZone("EST", -5*3600))
			Expect(auth.Hello(username, t, "ABCD", 14)).To(Equal("test_user 22105052000 ABCD 14"))
		})
	})

	Describe("Credentials", func() {
		It("builds a hello from the stored digest", func() {
			creds := auth.NewCredentials(username, password)
			Expect(creds.Username()).To(Equal(username))
			Expect(creds.Digest()).To(Equal(auth.PreliminaryDigest(username, password)))

			hello, err := creds.Hello(time.Unix(timeT, 0), auth.SHA1, 14)
			Expect(err).To(Succeed())
			Expect(hello).To(Equal("test_user 22105052000 C91F758CDED80910C0C4FC11CBEB31395AABB9B4 14"))
		})
	})
})
