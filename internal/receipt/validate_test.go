package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ValidFilename", func() {
	DescribeTable("filename extension checks",
		func(filename string, expected bool) {
			Expect(ValidFilename(filename)).To(Equal(expected))
		},
		Entry("jpg", "receipt.jpg", true),
		Entry("jpeg", "receipt.jpeg", true),
		Entry("png", "receipt.png", true),
		Entry("webp", "receipt.webp", true),
		Entry("heic", "IMG_1234.heic", true),
		Entry("heif", "IMG_1234.heif", true),
		Entry("pdf", "invoice.pdf", true),
		Entry("uppercase extension", "RECEIPT.JPG", true),
		Entry("mixed case extension", "receipt.Pdf", true),
		Entry("text file", "notes.txt", false),
		Entry("gif", "animation.gif", false),
		Entry("no extension", "receipt", false),
		Entry("empty filename", "", false),
		Entry("extension only in the middle", "receipt.pdf.exe", false),
	)
})

var _ = Describe("DetectContentType", func() {
	When("the bytes are a PNG", func() {
		It("should report image/png as supported", func() {
			data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
			contentType, ok := DetectContentType(data)
			Expect(ok).To(BeTrue())
			Expect(contentType).To(Equal("image/png"))
		})
	})

	When("the bytes are a JPEG", func() {
		It("should report image/jpeg as supported", func() {
			data := append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 16)...)
			contentType, ok := DetectContentType(data)
			Expect(ok).To(BeTrue())
			Expect(contentType).To(Equal("image/jpeg"))
		})
	})

	When("the bytes are a PDF", func() {
		It("should report application/pdf as supported", func() {
			contentType, ok := DetectContentType([]byte("%PDF-1.4\nsome content"))
			Expect(ok).To(BeTrue())
			Expect(contentType).To(Equal("application/pdf"))
		})
	})

	When("the bytes are plain text", func() {
		It("should report the sniffed type as unsupported", func() {
			contentType, ok := DetectContentType([]byte("just some notes"))
			Expect(ok).To(BeFalse())
			Expect(contentType).To(HavePrefix("text/plain"))
		})
	})

	When("the declared filename lies about the content", func() {
		It("should trust the bytes", func() {
			_, ok := DetectContentType([]byte("<html><body>not an image</body></html>"))
			Expect(ok).To(BeFalse())
		})
	})
})
