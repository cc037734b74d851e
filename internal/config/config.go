package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LLMConfig configures the chat model used for reformulation and synthesis.
// The endpoint is OpenAI-compatible; Groq is the default provider.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// OpenAIEmbedderConfig holds configuration for the remote embeddings client.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how extracted text is split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RetrieverConfig controls similarity retrieval.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// FallbackConfig controls the web-search fallback decision.
type FallbackConfig struct {
	MinAnswerLen int `yaml:"min_answer_len"`
	ResultCount  int `yaml:"result_count"`
	TimeoutSecs  int `yaml:"timeout_secs"`
}

// SummarizerConfig configures the post-ingestion corpus summary.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// TranslateConfig configures optional response translation.
type TranslateConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// StorageConfig locates the flat credential store and chat history files.
type StorageConfig struct {
	UsersFile  string `yaml:"users_file"`
	HistoryDir string `yaml:"history_dir"`
}

// LoggingConfig controls the diagnostic log. The TUI owns stdout, so logs
// go to a file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LLM         LLMConfig         `yaml:"llm"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	Fallback    FallbackConfig    `yaml:"fallback"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Translate   TranslateConfig   `yaml:"translate"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/legalease/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "legalease", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			APIKeyEnv:   "GROQ_API_KEY",
			Model:       "gemma2-9b-it",
			Temperature: 0.2,
			TimeoutSecs: 60,
		},
		Embedder:    EmbedderConfig{Type: "tfidf"},
		Chunker:     ChunkerConfig{ChunkSize: 1000, Overlap: 200},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Retriever:   RetrieverConfig{TopK: 4},
		Fallback:    FallbackConfig{MinAnswerLen: 30, ResultCount: 3, TimeoutSecs: 15},
		Summarizer:  SummarizerConfig{MaxSentences: 5},
		Translate:   TranslateConfig{TimeoutSecs: 15},
		Storage:     StorageConfig{UsersFile: "users.json", HistoryDir: "chat_histories"},
		Logging:     LoggingConfig{Level: "info", File: "legalease.log"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemma2-9b-it"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 4
	}
	if cfg.Fallback.MinAnswerLen == 0 {
		cfg.Fallback.MinAnswerLen = 30
	}
	if cfg.Fallback.ResultCount == 0 {
		cfg.Fallback.ResultCount = 3
	}
	if cfg.Fallback.TimeoutSecs == 0 {
		cfg.Fallback.TimeoutSecs = 15
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Translate.TimeoutSecs == 0 {
		cfg.Translate.TimeoutSecs = 15
	}
	if cfg.Storage.UsersFile == "" {
		cfg.Storage.UsersFile = "users.json"
	}
	if cfg.Storage.HistoryDir == "" {
		cfg.Storage.HistoryDir = "chat_histories"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "legalease.log"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
}
