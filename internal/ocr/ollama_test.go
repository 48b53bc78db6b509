package ocr

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server    *ghttp.Server
		extractor *Ollama
		imageData []byte
	)

	BeforeEach(func() {
		server = ghttp.NewServer()

		var err error
		extractor, err = NewOllama(server.URL(), "llava")
		Expect(err).NotTo(HaveOccurred())

		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		var buf bytes.Buffer
		Expect(png.Encode(&buf, img)).To(Succeed())
		imageData = buf.Bytes()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("NewOllama", func() {
		When("no URL or model is given", func() {
			It("should fall back to the local defaults", func() {
				o, err := NewOllama("", "")
				Expect(err).NotTo(HaveOccurred())
				Expect(o.baseURL).To(Equal("http://localhost:11434"))
				Expect(o.model).To(Equal("llava"))
			})
		})
	})

	Describe("ExtractText", func() {
		When("the server replies with a transcription", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.VerifyContentType("application/json"),
					func(w http.ResponseWriter, req *http.Request) {
						var chatReq ollamaChatRequest
						Expect(json.NewDecoder(req.Body).Decode(&chatReq)).To(Succeed())
						Expect(chatReq.Model).To(Equal("llava"))
						Expect(chatReq.Stream).To(BeFalse())
						Expect(chatReq.Messages).To(HaveLen(2))
						Expect(chatReq.Messages[0].Role).To(Equal("system"))
						Expect(chatReq.Messages[1].Role).To(Equal("user"))
						Expect(chatReq.Messages[1].Content).To(Equal(transcribePrompt))
						Expect(chatReq.Images).To(Equal([]string{base64.StdEncoding.EncodeToString(imageData)}))
					},
					ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
						Message: ollamaMessage{Role: "assistant", Content: "```\nWALMART\nTotal: $5.00\n```"},
						Done:    true,
					}),
				))
			})

			It("should return the transcription with any code fence removed", func() {
				text, err := extractor.ExtractText(imageData, "image/png")
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(Equal("WALMART\nTotal: $5.00"))
			})
		})

		When("the server replies with an error status", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not found"))
			})

			It("should surface the status and body", func() {
				_, err := extractor.ExtractText(imageData, "image/png")
				Expect(err).To(MatchError(ContainSubstring("status 500")))
				Expect(err).To(MatchError(ContainSubstring("model not found")))
			})
		})

		When("the image cannot be decoded", func() {
			It("should fail before calling the server", func() {
				_, err := extractor.ExtractText([]byte("not an image"), "image/jpeg")
				Expect(err).To(HaveOccurred())
				Expect(server.ReceivedRequests()).To(BeEmpty())
			})
		})
	})

	Describe("Close", func() {
		It("should be a no-op", func() {
			Expect(extractor.Close()).To(Succeed())
		})
	})
})
