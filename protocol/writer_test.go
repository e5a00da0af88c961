package protocol_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/ldds/protocol"
)

var _ = Describe("Writer", func() {
	Describe("Encode()", func() {
		It("starts with the sync code", func() {
			b, err := protocol.Encode(protocol.Hello, nil)
			Expect(err).To(Succeed())
			Expect(string(b)).To(HavePrefix("FAF0"))
		})

		It("zero pads the length", func() {
			b, err := protocol.Encode(protocol.DcpBlock, []byte(dcpRecord))
			Expect(err).To(Succeed())
			Expect(string(b)).To(Equal("FAF0n00049" + dcpRecord))

			b, err = protocol.Encode(protocol.Goodbye, nil)
			Expect(err).To(Succeed())
			Expect(string(b)).To(Equal("FAF0b00000"))
		})

		It("rejects types outside the alphabet", func() {
			_, err := protocol.Encode(protocol.MessageType('z'), nil)
			Expect(errors.Is(err, protocol.ErrInvalidType)).To(BeTrue())
		})

		It("rejects payloads the length field can't describe", func() {
			_, err := protocol.Encode(protocol.Criteria, make([]byte, protocol.MaxLength+1))
			Expect(errors.Is(err, protocol.ErrPayloadTooLarge)).To(BeTrue())
		})

		It("does not alias the payload", func() {
			payload := []byte("abc")
			b, err := protocol.Encode(protocol.User, payload)
			Expect(err).To(Succeed())

			payload[0] = 'z'
			Expect(string(b)).To(Equal("FAF0u00003abc"))
		})
	})

	Describe("NewMessage()", func() {
		It("copies the payload", func() {
			payload := []byte("abc")
			msg, err := protocol.NewMessage(protocol.AuthHello, payload)
			Expect(err).To(Succeed())

			payload[0] = 'z'
			Expect(string(msg.Data())).To(Equal("abc"))
			Expect(string(msg.Bytes())).To(Equal("FAF0m00003abc"))
		})
	})

	Describe("WriteMessage()", func() {
		It("writes header and payload", func() {
			w := bytes.NewBuffer([]byte{})

			msg, err := protocol.NewMessage(protocol.Criteria, []byte("SOURCE: GOES\n"))
			Expect(err).To(Succeed())

			Expect(protocol.WriteMessage(w, msg)).To(Succeed())
			Expect(w.String()).To(Equal("FAF0g00013SOURCE: GOES\n"))
		})
	})

	Describe("MessageType", func() {
		It("has 21 valid codes", func() {
			valid := 0
			for c := 0; c < 256; c++ {
				if protocol.MessageType(c).Valid() {
					valid++
				}
			}
			Expect(valid).To(Equal(21))
		})

		It("names the types", func() {
			Expect(protocol.DcpBlock.String()).To(Equal("dcp-block"))
			Expect(protocol.MessageType('z').String()).To(Equal("unknown"))
		})
	})
})
