package ocr

import (
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/genproto/googleapis/rpc/status"
)

var _ TextExtractor = (*Vision)(nil)

func batchOf(r *visionpb.AnnotateImageResponse) *visionpb.BatchAnnotateImagesResponse {
	return &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{r},
	}
}

var _ = Describe("visionText", func() {
	It("returns the full text from the first annotation", func() {
		res := batchOf(&visionpb.AnnotateImageResponse{
			TextAnnotations: []*visionpb.EntityAnnotation{
				{Description: "WALMART\nTotal: $5.00"},
				{Description: "WALMART"},
			},
		})
		text, err := visionText(res)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("WALMART\nTotal: $5.00"))
	})

	It("treats no annotations as a blank receipt", func() {
		text, err := visionText(batchOf(&visionpb.AnnotateImageResponse{}))
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(BeEmpty())
	})

	It("surfaces the provider error message", func() {
		res := batchOf(&visionpb.AnnotateImageResponse{
			Error: &status.Status{Message: "quota exceeded"},
		})
		_, err := visionText(res)
		Expect(err).To(MatchError("Vision API error: quota exceeded"))
	})

	It("rejects a batch with no responses", func() {
		_, err := visionText(&visionpb.BatchAnnotateImagesResponse{})
		Expect(err).To(MatchError("empty annotation response"))
	})
})
