package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/bernardyeh/receipt-filing/internal/category"
	"github.com/bernardyeh/receipt-filing/internal/export"
	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// corsErrorJSON writes a JSON error body with CORS headers set
func corsErrorJSON(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// handleRoot serves the service banner
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "receipt-filing API"}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleVersion returns the build version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"version": s.version}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleUploadReceipts processes a batch of uploaded receipt files. Every
// file gets a result entry, so one bad file never hides the others.
func (s *Server) handleUploadReceipts(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 50MB to handle batches of phone photos)
	maxFormSize := int64(50 << 20) // 50MB
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "Upload is too large. Maximum total size is 50MB. Please compress or resize your images."
		}
		corsErrorJSON(w, errorMsg, http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		corsErrorJSON(w, "No files were selected. Please choose at least one file to upload.", http.StatusBadRequest)
		return
	}

	results := make([]receipt.ProcessingResult, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header)
		if err != nil {
			slog.Error("Error reading uploaded file", "filename", header.Filename, "error", err)
			results = append(results, receipt.ProcessingResult{
				Filename: header.Filename,
				Status:   "error",
				Error:    "Error reading file. Please try again.",
			})
			continue
		}
		results = append(results, s.service.ProcessFile(header.Filename, data))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// handleListCategories returns the merged category rule table
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.service.Categories()); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleCreateCategory adds a custom category rule
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req category.NamedRule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		corsErrorJSON(w, "Category name is required", http.StatusBadRequest)
		return
	}

	if err := s.service.AddCategory(req.Name, req.Keywords, req.Merchants); err != nil {
		slog.Error("Error saving category", "name", req.Name, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rule := s.service.Categories()[req.Name]
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(category.NamedRule{
		Name:      req.Name,
		Keywords:  rule.Keywords,
		Merchants: rule.Merchants,
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleAddKeyword appends a keyword to an existing category
func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("category")

	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Keyword == "" {
		corsErrorJSON(w, "Keyword is required", http.StatusBadRequest)
		return
	}

	if err := s.service.AddKeyword(name, req.Keyword); err != nil {
		if errors.Is(err, category.ErrUnknownCategory) {
			corsErrorJSON(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Error saving keyword", "category", name, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rule := s.service.Categories()[name]
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(category.NamedRule{
		Name:      name,
		Keywords:  rule.Keywords,
		Merchants: rule.Merchants,
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleExportCSV renders a receipt batch as a CSV attachment
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req receipt.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, err := export.CSV(req.Receipts)
	if err != nil {
		slog.Error("Error exporting csv", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=receipts.csv`)
	w.Write(data)
}

// handleExportExcel renders a receipt batch as an XLSX attachment
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	var req receipt.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, err := export.Excel(req.Receipts)
	if err != nil {
		slog.Error("Error exporting xlsx", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename=receipts.xlsx`)
	w.Write(data)
}

// handleSummary returns aggregate statistics for a receipt batch
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req receipt.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(export.Summarize(req.Receipts)); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
