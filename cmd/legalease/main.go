package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"legalease/internal/auth"
	"legalease/internal/chunker"
	"legalease/internal/config"
	"legalease/internal/domain"
	"legalease/internal/embedding/openai"
	"legalease/internal/embedding/tfidf"
	"legalease/internal/history"
	"legalease/internal/llm"
	"legalease/internal/logging"
	"legalease/internal/search"
	"legalease/internal/service"
	"legalease/internal/summarizer"
	"legalease/internal/translate"
	"legalease/internal/tui"
	"legalease/internal/vectorstore/memory"
	"legalease/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/legalease/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := logging.New(cfg.Logging.Level, logFile)
	logging.SetDefault(logger)

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.New()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.New()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		store = qdrant.New(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	completer, modelErr := llm.New(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if modelErr != nil {
		if !errors.Is(modelErr, domain.ErrModelInit) {
			log.Fatalf("llm client init failed: %v", modelErr)
		}
		logger.Warn("chat model unavailable", "error", modelErr)
	}

	users := auth.NewStore(cfg.Storage.UsersFile)
	histories := history.NewStore(cfg.Storage.HistoryDir)

	assistant := service.NewAssistant(service.Options{
		Chunker:   chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
		Embedder:  emb,
		Store:     store,
		Completer: completer,
		Searcher: search.NewClient(search.Config{
			Timeout: time.Duration(cfg.Fallback.TimeoutSecs) * time.Second,
		}),
		Translator: translate.NewClient(translate.Config{
			BaseURL: cfg.Translate.BaseURL,
			Timeout: time.Duration(cfg.Translate.TimeoutSecs) * time.Second,
		}),
		Summarizer:       summarizer.NewFrequencySummarizer(),
		Histories:        histories,
		Logger:           logger,
		TopK:             cfg.Retriever.TopK,
		MinAnswerLen:     cfg.Fallback.MinAnswerLen,
		ResultCount:      cfg.Fallback.ResultCount,
		SummarySentences: cfg.Summarizer.MaxSentences,
	})

	// Files named on the command line are indexed before the TUI starts;
	// more can be added later with /load.
	if paths := flag.Args(); len(paths) > 0 {
		var docs []service.Document
		for _, p := range paths {
			content, err := os.ReadFile(p)
			if err != nil {
				log.Fatalf("failed to read %s: %v", p, err)
			}
			docs = append(docs, service.Document{Name: filepath.Base(p), Content: content})
		}
		if _, warnings, err := assistant.Ingest(context.Background(), docs); err != nil {
			log.Fatalf("ingest failed: %v", err)
		} else {
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w)
			}
		}
	}

	m := tui.New(assistant, users, histories, translate.Languages, modelErr)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
