package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/bernardyeh/receipt-filing/internal/category"
	"github.com/bernardyeh/receipt-filing/internal/ocr"
	"github.com/bernardyeh/receipt-filing/internal/receipt"
	"github.com/bernardyeh/receipt-filing/internal/server"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-filing")
	var (
		listenAddr  = fs.StringLong("listen-addr", ":8080", "HTTP listen address")
		dbPath      = fs.StringLong("db-path", "receipt-filing.db", "Category rule store file path")
		categories  = fs.StringLong("categories", "", "Category seed YAML file (optional)")
		ocrProvider = fs.StringLong("ocr", "vision", "OCR provider: 'vision', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-api-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-1.5-flash", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-password", "", "Basic auth password (optional)")
		debug       = fs.BoolLong("debug", "Enable debug logging")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_FILING"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize category rule store
	slog.Info("Initializing rule store...")
	store, err := category.NewBoltStore(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize rule store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Load seed rules
	var seed []category.NamedRule
	if *categories != "" {
		cfg, err := category.LoadConfig(*categories)
		if err != nil {
			slog.Error("Failed to load category config", "path", *categories, "error", err)
			os.Exit(1)
		}
		seed = cfg.Categories
		slog.Info("Loaded category seed", "path", *categories, "rules", len(seed))
	}

	// Initialize OCR extractor based on provider
	var extractor ocr.TextExtractor
	switch *ocrProvider {
	case "vision":
		slog.Info("Initializing Vision extractor...")
		extractor, err = ocr.NewVision(os.Getenv("GOOGLE_API_KEY"))
		if err != nil {
			slog.Error("Failed to initialize Vision", "error", err)
			os.Exit(1)
		}
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-api-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini extractor...", "model", *geminiModel)
		extractor, err = ocr.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama extractor...", "url", *ollamaURL, "model", *ollamaModel)
		extractor, err = ocr.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid OCR provider", "provider", *ocrProvider, "valid", "vision, gemini or ollama")
		os.Exit(1)
	}
	defer extractor.Close()

	// Initialize service
	svc, err := receipt.NewService(extractor, store, seed, logger)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	// Initialize server
	basicAuth := server.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	srv := server.New(svc, version, basicAuth)

	// Start server in goroutine
	go func() {
		if err := srv.Start(*listenAddr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", *listenAddr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
