package protocol_test

import (
	"bytes"
	"errors"
	"io"
	"testing/iotest"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/ldds/protocol"
)

const dcpRecord = "A081B07E24204153353G30-0NN096WUB00012`BST@KZ@KZh "

var _ = Describe("Parsing", func() {
	Describe("DecodeHeader()", func() {
		It("returns an error if the data is shorter than a header", func() {
			_, _, err := protocol.DecodeHeader([]byte("FAF0n0001"))
			Expect(errors.Is(err, protocol.ErrHeaderTooShort)).To(BeTrue())
			Expect(errors.Is(err, protocol.ErrProtocol)).To(BeTrue())
		})

		It("rejects any buffer without the sync code", func() {
			for _, raw := range []string{
				"FAF1n00000",
				"faf0n00000",
				"XXXXn00049" + dcpRecord,
				"\x00\x00\x00\x00a00000",
			} {
				_, _, err := protocol.DecodeHeader([]byte(raw))
				Expect(errors.Is(err, protocol.ErrBadSync)).To(BeTrue(), raw)
			}
		})

		It("rejects message types outside the alphabet", func() {
			for _, t := range []string{"v", "A", "`", "0"} {
				_, _, err := protocol.DecodeHeader([]byte("FAF0" + t + "00000"))
				Expect(errors.Is(err, protocol.ErrBadType)).To(BeTrue(), t)
			}
		})

		It("rejects length fields that aren't decimal", func() {
			for _, l := range []string{"0001x", "-0001", "+0001", "0x001"} {
				_, _, err := protocol.DecodeHeader([]byte("FAF0n" + l))
				Expect(errors.Is(err, protocol.ErrBadLength)).To(BeTrue(), l)
			}
		})

		It("reads space padded lengths like zero padded ones", func() {
			spaced, spacedLen, err := protocol.DecodeHeader([]byte("FAF0n  123"))
			Expect(err).To(Succeed())

			zeroed, zeroedLen, err := protocol.DecodeHeader([]byte("FAF0n00123"))
			Expect(err).To(Succeed())

			Expect(spaced).To(Equal(zeroed))
			Expect(spacedLen).To(Equal(123))
			Expect(zeroedLen).To(Equal(123))
		})

		It("only looks at the first 10 bytes", func() {
			t, length, err := protocol.DecodeHeader([]byte("FAF0m00030?55,0,Server requires SHA-256."))
			Expect(err).To(Succeed())
			Expect(t).To(Equal(protocol.AuthHello))
			Expect(length).To(Equal(30))
		})
	})

	Describe("Decode()", func() {
		It("parses a dcp block", func() {
			msg, err := protocol.Decode([]byte("FAF0n00049" + dcpRecord))
			Expect(err).To(Succeed())
			Expect(msg.Type()).To(Equal(protocol.DcpBlock))
			Expect(msg.Len()).To(Equal(49))
			Expect(string(msg.Data())).To(Equal(dcpRecord))

			created, err := protocol.NewMessage(protocol.DcpBlock, []byte(dcpRecord))
			Expect(err).To(Succeed())
			Expect(msg.Equal(created)).To(BeTrue())
		})

		It("reports an inconsistent length", func() {
			_, err := protocol.Decode([]byte("FAF0n00049" + dcpRecord[:46]))
			Expect(errors.Is(err, protocol.ErrInconsistentLength)).To(BeTrue())
			Expect(errors.Is(err, protocol.ErrProtocol)).To(BeFalse())

			_, err = protocol.Decode([]byte("FAF0n00049" + dcpRecord + "x"))
			Expect(errors.Is(err, protocol.ErrInconsistentLength)).To(BeTrue())
		})

		It("does not alias the input buffer", func() {
			raw := []byte("FAF0a00003abc")
			msg, err := protocol.Decode(raw)
			Expect(err).To(Succeed())

			raw[10] = 'z'
			Expect(string(msg.Data())).To(Equal("abc"))
		})

		It("exposes the server error carried in the payload", func() {
			msg, err := protocol.Decode([]byte("FAF0m00030?55,0,Server requires SHA-256."))
			Expect(err).To(Succeed())

			se, err := msg.ServerError()
			Expect(err).To(Succeed())
			Expect(se).To(Equal(&protocol.ServerError{
				Code:    protocol.DSTRONGREQUIRED,
				Errno:   0,
				Message: "Server requires SHA-256.",
			}))
		})
	})

	Describe("round trip", func() {
		It("decodes what it encodes for every message type", func() {
			payloads := [][]byte{
				{},
				[]byte("x"),
				[]byte(dcpRecord),
				bytes.Repeat([]byte{0, 0xff, '?'}, 1000),
				bytes.Repeat([]byte("9"), protocol.MaxLength),
			}

			for t := protocol.Hello; t <= protocol.User; t++ {
				for _, payload := range payloads {
					raw, err := protocol.Encode(t, payload)
					Expect(err).To(Succeed())

					msg, err := protocol.Decode(raw)
					Expect(err).To(Succeed())
					Expect(msg.Type()).To(Equal(t))
					Expect(msg.Data()).To(Equal(payload))
				}
			}
		})
	})

	Describe("ReadMessage()", func() {
		It("assembles a frame delivered one byte at a time", func() {
			r := iotest.OneByteReader(bytes.NewReader([]byte("FAF0n00049" + dcpRecord + "FAF0b00000")))

			msg, err := protocol.ReadMessage(r)
			Expect(err).To(Succeed())
			Expect(msg.Type()).To(Equal(protocol.DcpBlock))
			Expect(string(msg.Data())).To(Equal(dcpRecord))

			msg, err = protocol.ReadMessage(r)
			Expect(err).To(Succeed())
			Expect(msg.Type()).To(Equal(protocol.Goodbye))
			Expect(msg.Len()).To(Equal(0))

			_, err = protocol.ReadMessage(r)
			Expect(err).To(MatchError(io.EOF))
		})

		It("returns an unexpected EOF when the stream ends mid frame", func() {
			_, err := protocol.ReadMessage(bytes.NewReader([]byte("FAF0n0")))
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))

			_, err = protocol.ReadMessage(bytes.NewReader([]byte("FAF0n00049A081")))
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))
		})

		It("returns the header error for a malformed header", func() {
			_, err := protocol.ReadMessage(bytes.NewReader([]byte("FAFFn00049" + dcpRecord)))
			Expect(errors.Is(err, protocol.ErrBadSync)).To(BeTrue())
		})
	})

	Describe("HasSyncCode()", func() {
		It("requires the sync code and a numeric length", func() {
			Expect(protocol.HasSyncCode([]byte("FAF0n  049"))).To(BeTrue())
			Expect(protocol.HasSyncCode([]byte("FAF0n0a049"))).To(BeFalse())
			Expect(protocol.HasSyncCode([]byte("FAF1n00049"))).To(BeFalse())
			Expect(protocol.HasSyncCode([]byte("FAF0"))).To(BeFalse())
		})
	})
})
