package receipt

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bernardyeh/receipt-filing/internal/category"
	"github.com/bernardyeh/receipt-filing/internal/ocr"
)

// UploadedFile is one file from an upload batch.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Service runs the receipt pipeline: validate an upload, obtain its raw
// text, interpret the text into structured fields and classify the spend.
// It also owns the classifier-configuration surface. The classifier does no
// locking of its own, so every access goes through the service's RWMutex.
type Service struct {
	extractor  ocr.TextExtractor
	classifier *category.Classifier
	store      category.Store
	logger     *slog.Logger
	pdfText    func([]byte) (string, error)
	pdfRender  func([]byte) ([]byte, error)

	mu sync.RWMutex // guards classifier
}

// NewService creates a new Service. Seed rules from configuration are
// applied first, then rule changes persisted in the store are replayed on
// top.
func NewService(extractor ocr.TextExtractor, store category.Store, seed []category.NamedRule, logger *slog.Logger) (*Service, error) {
	return NewServiceWithDeps(extractor, store, seed, logger, ocr.PDFText, ocr.PDFToImage)
}

// NewServiceWithDeps creates a new Service with injectable PDF helpers for
// testing.
func NewServiceWithDeps(extractor ocr.TextExtractor, store category.Store, seed []category.NamedRule, logger *slog.Logger, pdfText func([]byte) (string, error), pdfRender func([]byte) ([]byte, error)) (*Service, error) {
	s := &Service{
		extractor:  extractor,
		classifier: category.NewClassifier(),
		store:      store,
		logger:     logger,
		pdfText:    pdfText,
		pdfRender:  pdfRender,
	}

	for _, rule := range seed {
		s.classifier.AddCustom(rule.Name, rule.Keywords, rule.Merchants)
	}

	customs, extra, err := store.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("loading stored rules: %w", err)
	}
	for _, rule := range customs {
		s.classifier.AddCustom(rule.Name, rule.Keywords, rule.Merchants)
	}
	for name, keywords := range extra {
		for _, keyword := range keywords {
			if err := s.classifier.AddKeyword(name, keyword); err != nil {
				logger.Warn("Dropping stored keyword for unknown category",
					"category", name,
					"keyword", keyword,
				)
			}
		}
	}

	return s, nil
}

// ProcessFiles runs every uploaded file through the pipeline, one result
// per file in input order. A file that fails never aborts the batch.
func (s *Service) ProcessFiles(files []UploadedFile) []ProcessingResult {
	results := make([]ProcessingResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.ProcessFile(f.Filename, f.Data))
	}
	return results
}

// ProcessFile validates one upload, extracts its text and builds the
// categorized receipt.
func (s *Service) ProcessFile(filename string, data []byte) ProcessingResult {
	r, err := s.processFile(filename, data)
	if err != nil {
		s.logger.Error("Failed to process receipt",
			"filename", filename,
			"file_size", len(data),
			"error", err,
		)
		return ProcessingResult{Filename: filename, Status: "error", Error: err.Error()}
	}
	return ProcessingResult{Filename: filename, Status: "success", Data: r}
}

func (s *Service) processFile(filename string, data []byte) (*Receipt, error) {
	if !ValidFilename(filename) {
		return nil, fmt.Errorf("invalid file type: %s", filename)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}
	contentType, ok := DetectContentType(data)
	if !ok {
		return nil, fmt.Errorf("unsupported file content: %s", contentType)
	}

	rawText, err := s.rawText(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	r := Interpret(rawText)
	s.Categorize(&r)
	return &r, nil
}

// rawText obtains the OCR text for an upload. A PDF with a usable embedded
// text layer skips OCR entirely; scanned PDFs are rendered to an image and
// sent through the extractor like any photo.
func (s *Service) rawText(data []byte, contentType string) (string, error) {
	if contentType != "application/pdf" {
		return s.extractor.ExtractText(data, contentType)
	}

	text, err := s.pdfText(data)
	if err != nil {
		s.logger.Warn("Falling back to OCR for unreadable PDF", "error", err)
	} else if text != "" {
		return text, nil
	}

	rendered, err := s.pdfRender(data)
	if err != nil {
		return "", fmt.Errorf("rendering pdf: %w", err)
	}
	return s.extractor.ExtractText(rendered, "image/png")
}

// Categorize assigns and returns the category for a receipt.
func (s *Service) Categorize(r *Receipt) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r.Category = s.classifier.Classify(r.Merchant, r.RawText)
	return r.Category
}

// Categories returns the merged rule table, customs over defaults.
func (s *Service) Categories() map[string]category.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifier.Categories()
}

// AddCategory persists a custom rule and applies it to the classifier.
func (s *Service) AddCategory(name string, keywords, merchants []string) error {
	if name == "" {
		return errors.New("category name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rule := category.NamedRule{Name: name, Keywords: keywords, Merchants: merchants}
	if err := s.store.SaveCustomCategory(rule); err != nil {
		return fmt.Errorf("saving category: %w", err)
	}
	s.classifier.AddCustom(name, keywords, merchants)
	return nil
}

// AddKeyword persists a keyword addition and applies it. The category must
// already exist in either rule table.
func (s *Service) AddKeyword(name, keyword string) error {
	if keyword == "" {
		return errors.New("keyword is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.classifier.HasCategory(name) {
		return fmt.Errorf("%w: %s", category.ErrUnknownCategory, name)
	}
	if err := s.store.AppendKeyword(name, keyword); err != nil {
		return fmt.Errorf("saving keyword: %w", err)
	}
	return s.classifier.AddKeyword(name, keyword)
}
