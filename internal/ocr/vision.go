package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Vision implements the TextExtractor interface using Google Cloud Vision
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a new Vision TextExtractor instance. Credentials come
// from Application Default Credentials unless an API key is given.
func NewVision(apiKey string) (*Vision, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Vision{client: client}, nil
}

// ExtractText runs text detection on a receipt image. The first annotation
// holds the full detected text; a receipt the provider reads nothing from
// yields "" rather than an error.
func (v *Vision) ExtractText(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prepared, err := PrepareImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	res, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: prepared},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("annotating image: %w", err)
	}
	return visionText(res)
}

// visionText pulls the detected text out of a single-request batch response.
func visionText(res *visionpb.BatchAnnotateImagesResponse) (string, error) {
	responses := res.GetResponses()
	if len(responses) == 0 {
		return "", errors.New("empty annotation response")
	}
	r := responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return "", fmt.Errorf("Vision API error: %s", r.Error.Message)
	}
	if len(r.TextAnnotations) == 0 {
		return "", nil
	}
	return r.TextAnnotations[0].GetDescription(), nil
}

// Close closes the Vision client
func (v *Vision) Close() error {
	return v.client.Close()
}
