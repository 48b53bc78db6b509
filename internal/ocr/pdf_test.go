package ocr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IsPDF", func() {
	DescribeTable("magic header checks",
		func(data []byte, expected bool) {
			Expect(IsPDF(data)).To(Equal(expected))
		},
		Entry("pdf header", []byte("%PDF-1.4\nrest of file"), true),
		Entry("png header", []byte("\x89PNG\r\n\x1a\n"), false),
		Entry("truncated header", []byte("%PD"), false),
		Entry("empty", []byte{}, false),
	)
})

var _ = Describe("PDFText", func() {
	When("the bytes are not a PDF", func() {
		It("should return an error", func() {
			_, err := PDFText([]byte("plain text pretending"))
			Expect(err).To(HaveOccurred())
		})
	})

	When("the PDF is truncated after the header", func() {
		It("should return an error instead of panicking", func() {
			_, err := PDFText([]byte("%PDF-1.4\n"))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isReadableText", func() {
	It("should accept ordinary receipt text", func() {
		Expect(isReadableText("WALMART\nTotal: $5.00")).To(BeTrue())
	})

	It("should accept Chinese receipt text", func() {
		Expect(isReadableText("全聯福利中心\n合計 300元")).To(BeTrue())
	})

	It("should reject empty text", func() {
		Expect(isReadableText("")).To(BeFalse())
	})

	It("should reject mostly unprintable text", func() {
		garbled := string([]rune{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 'a', 'b'})
		Expect(isReadableText(garbled)).To(BeFalse())
	})
})
