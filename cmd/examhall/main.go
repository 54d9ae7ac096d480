package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkandie/examhall/internal/exam"
	"github.com/pkandie/examhall/internal/handler"
	"github.com/pkandie/examhall/internal/model"
	"github.com/pkandie/examhall/internal/question"
	"github.com/pkandie/examhall/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examhall",
		Short: "Exam administration server with trivia-backed question generation",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `examhall --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "examhall.db", "SQLite database path")
	f.String("provider-url", question.DefaultProviderURL, "Trivia provider API URL")
	f.Duration("provider-timeout", 8*time.Second, "Trivia provider request timeout")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty disables the LLM source)")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("jwt-secret", "", "Secret for signing auth tokens (or set EXAMHALL_JWT_SECRET)")
	f.Duration("token-ttl", 24*time.Hour, "Auth token lifetime")
	f.String("admin-password", "", "Initial admin password (or set EXAMHALL_ADMIN_PASSWORD)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an exam's results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "examhall.db", "SQLite database path")
	f.String("exam-id", "", "Exam identifier to export (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("exam-id")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMHALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examhall")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examhall")
	v.AddConfigPath("/etc/examhall")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Seed default admin account if none exist.
	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	cfg := model.ServerConfig{
		Addr:            v.GetString("addr"),
		ProviderURL:     v.GetString("provider-url"),
		ProviderTimeout: v.GetDuration("provider-timeout"),
		LLMURL:          v.GetString("llm-url"),
		LLMKey:          v.GetString("llm-key"),
		LLMModel:        v.GetString("llm-model"),
		JWTSecret:       v.GetString("jwt-secret"),
		TokenTTL:        v.GetDuration("token-ttl"),
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required: set --jwt-secret flag or EXAMHALL_JWT_SECRET env var")
	}

	questions := question.NewService()
	questions.Register(question.SourceOpenTDB, question.NewOpenTDB(cfg.ProviderURL, cfg.ProviderTimeout))
	if cfg.LLMURL != "" {
		questions.Register(question.SourceLLM, question.NewLLM(cfg.LLMURL, cfg.LLMKey, cfg.LLMModel))
		slog.Info("LLM question source enabled", "url", cfg.LLMURL, "model", cfg.LLMModel)
	}

	exams := exam.New(db, questions)
	h := handler.New(db, exams, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	slog.Info("starting server",
		"addr", cfg.Addr,
		"provider_url", cfg.ProviderURL,
		"llm_url", cfg.LLMURL,
		"token_ttl", cfg.TokenTTL,
	)
	return http.ListenAndServe(cfg.Addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportExamResults(v.GetString("exam-id"))
	if err != nil {
		return fmt.Errorf("export exam results: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

func seedAdmin(db *store.Store, password string) error {
	count, err := db.AdminCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or EXAMHALL_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateAdmin(model.Account{
		Username:     "admin",
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	slog.Info("seeded default admin account", "username", "admin")
	return nil
}
