package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/receipt"
	"github.com/zombor/expense-tracker/internal/scanning"
	"github.com/zombor/expense-tracker/internal/server"
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

	// Values from .env are visible to ff's env var lookup below; real env vars win
	envFile := os.Getenv("EXPENSE_TRACKER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: loading %s: %v\n", envFile, err)
		os.Exit(1)
	}

	flags := ff.NewFlagSet("expense-tracker")
	var (
		port        = flags.IntLong("port", 8080, "HTTP server port")
		dbPath      = flags.StringLong("db", "expense-tracker.db", "Database file path")
		storagePath = flags.StringLong("storage", "./receipts", "Receipt image storage directory")
		users       = flags.StringLong("users", "", "Comma-separated user:password pairs for basic auth (empty disables auth)")
		ocrProvider = flags.StringLong("ocr", "ocrspace", "OCR provider: "+strings.Join(scanning.Providers, ", "))
		ocrLanguage = flags.StringLong("ocr-language", scanning.DefaultLanguage, "OCR language code")
		ocrTimeout  = flags.DurationLong("ocr-timeout", 60*time.Second, "Timeout for HTTP-based OCR providers")
		ocrSpaceURL = flags.StringLong("ocrspace-url", scanning.DefaultOCRSpaceURL, "OCR.space parse endpoint")
		ocrSpaceKey = flags.StringLong("ocrspace-key", "helloworld", "OCR.space API key (the default is the rate-limited public demo key)")
		geminiKey   = flags.StringLong("gemini-key", "", "Google Gemini API key")
		geminiModel = flags.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL   = flags.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = flags.StringLong("ollama-model", "llava", "Ollama vision model name")
		tessdata    = flags.StringLong("tessdata", "", "Tesseract tessdata directory (tesseract builds only)")
		logLevel    = flags.StringLong("log-level", "info", "Log level: debug, info, warn, error")
		logFormat   = flags.StringLong("log-format", "text", "Log format: text or json")
		showVersion = flags.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(flags, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(flags))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := setupLogging(*logLevel, *logFormat); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	userTable, err := server.ParseUsers(*users)
	if err != nil {
		slog.Error("Invalid --users value", "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing database...", "path", *dbPath)
	db, err := ledger.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Initializing OCR...", "provider", *ocrProvider, "language", *ocrLanguage)
	recognizer, err := scanning.New(scanning.Config{
		Provider:     *ocrProvider,
		OCRSpaceURL:  *ocrSpaceURL,
		OCRSpaceKey:  *ocrSpaceKey,
		GeminiKey:    *geminiKey,
		GeminiModel:  *geminiModel,
		OllamaURL:    *ollamaURL,
		OllamaModel:  *ollamaModel,
		TessdataPath: *tessdata,
		Timeout:      *ocrTimeout,
	})
	if err != nil {
		slog.Error("Failed to initialize OCR", "error", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	slog.Info("Initializing storage...", "path", *storagePath)
	store, err := ledger.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(
		receipt.NewService(recognizer, *ocrLanguage),
		ledger.NewService(db, store),
		userTable,
	).HTTPServer(fmt.Sprintf(":%d", *port))

	if len(userTable) > 0 {
		slog.Info("Basic auth enabled", "users", len(userTable))
	} else {
		slog.Warn("Basic auth disabled; all data belongs to the default user", "user", server.DefaultUser)
	}

	if err := run(srv); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shut down cleanly")
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests
func run(srv *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q (valid: text, json)", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
