package ocr

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PrepareImage", func() {
	encodePNG := func() []byte {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		var buf bytes.Buffer
		Expect(png.Encode(&buf, img)).To(Succeed())
		return buf.Bytes()
	}

	encodeJPEG := func() []byte {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		var buf bytes.Buffer
		Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
		return buf.Bytes()
	}

	When("the input is already PNG", func() {
		It("should pass the bytes through unchanged", func() {
			data := encodePNG()
			prepared, err := PrepareImage(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(prepared).To(Equal(data))
		})
	})

	When("the input is JPEG", func() {
		It("should convert to PNG", func() {
			prepared, err := PrepareImage(encodeJPEG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			img, err := png.Decode(bytes.NewReader(prepared))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Bounds()).To(Equal(image.Rect(0, 0, 8, 8)))
		})
	})

	When("the declared type is PNG but the bytes are HEIC", func() {
		It("should not pass the bytes through", func() {
			data := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypheic")...)
			data = append(data, make([]byte, 32)...)

			_, err := PrepareImage(data, "image/png")
			Expect(err).To(MatchError(ContainSubstring("decoding HEIC/HEIF image")))
		})
	})

	When("the bytes are not a decodable image", func() {
		It("should return an error", func() {
			_, err := PrepareImage([]byte("not an image"), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("decoding image")))
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	ftyp := func(brand string) []byte {
		data := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftyp")...)
		return append(data, []byte(brand)...)
	}

	DescribeTable("ftyp brand sniffing",
		func(data []byte, expected bool) {
			Expect(isHEICFormat(data)).To(Equal(expected))
		},
		Entry("heic brand", ftyp("heic"), true),
		Entry("heif brand", ftyp("heif"), true),
		Entry("mif1 brand", ftyp("mif1"), true),
		Entry("msf1 brand", ftyp("msf1"), true),
		Entry("avif brand", ftyp("avif"), false),
		Entry("no ftyp box", []byte("\x89PNG\r\n\x1a\n    "), false),
		Entry("too short", []byte("ftyp"), false),
		Entry("empty", []byte{}, false),
	)
})
