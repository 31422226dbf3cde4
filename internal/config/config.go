package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend modes for generation and embeddings.
const (
	ModeCloud = "cloud" // Gemini
	ModeLocal = "local" // Ollama
)

type Config struct {
	// Generation backends
	AppMode              string // "cloud" | "local"
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTier           string
	OllamaURL            string
	OllamaModel          string
	CloudFallbackToLocal bool

	// Embeddings
	EmbeddingsProvider    string // "google" (default), "ollama"
	GoogleEmbeddingsModel string
	OllamaEmbeddingsModel string

	// Ingestion
	VectorStoreDir      string
	DocsDir             string
	FileStorageDir      string
	MaxFileSize         int64
	SyncProcessingLimit int64
	ShortTextThreshold  int
	OCRServiceURL       string
	OCRTimeout          int
	CaptionServiceURL   string
	CaptionTimeout      int
	RenderDPI           int

	// Response cache
	CacheBackend string // "memory" | "redis"
	CacheSize    int
	CacheTTL     int // seconds; 0 = no expiry

	// Document store
	StoreBackend string // "disk" | "mongo"
	MongoURI     string
	DBName       string

	// Redis (cache backend + asynq)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// HTTP
	Port            string
	GinMode         string
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow int

	// Retrieval
	RetrievalK int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		AppMode:              strings.ToLower(getEnv("APP_MODE", ModeCloud)),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTier:           getEnv("GEMINI_TIER", "free"),
		OllamaURL:            getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:          getEnv("OLLAMA_MODEL", "phi3:mini"),
		CloudFallbackToLocal: getEnvBool("CLOUD_FALLBACK_TO_LOCAL", true),

		EmbeddingsProvider:    getEnv("EMBEDDINGS_PROVIDER", "google"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		OllamaEmbeddingsModel: getEnv("OLLAMA_EMBEDDINGS_MODEL", "nomic-embed-text"),

		VectorStoreDir:      getEnv("VECTOR_STORE_DIR", "./data/index"),
		DocsDir:             getEnv("DOCS_DIR", "./data/docs"),
		FileStorageDir:      getEnv("FILE_STORAGE_DIR", "./storage"),
		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 104857600),        // 100MB
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 20971520), // 20MB; larger uploads go async
		ShortTextThreshold:  getEnvInt("SHORT_TEXT_THRESHOLD", 20),
		OCRServiceURL:       getEnv("OCR_SERVICE_URL", "http://localhost:8001"),
		OCRTimeout:          getEnvInt("OCR_TIMEOUT", 300),
		CaptionServiceURL:   getEnv("CAPTION_SERVICE_URL", "http://localhost:8002"),
		CaptionTimeout:      getEnvInt("CAPTION_TIMEOUT", 120),
		RenderDPI:           getEnvInt("RENDER_DPI", 150),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		CacheSize:    getEnvInt("CACHE_SIZE", 512),
		CacheTTL:     getEnvInt("CACHE_TTL", 0),

		StoreBackend: getEnv("STORE_BACKEND", "disk"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/ai_tutor"),
		DBName:       getEnv("DB_NAME", "ai_tutor"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		RetrievalK: getEnvInt("RETRIEVAL_K", 3),
	}

	// Validate required fields
	if cfg.AppMode != ModeCloud && cfg.AppMode != ModeLocal {
		return nil, fmt.Errorf("APP_MODE must be 'cloud' or 'local', got %q", cfg.AppMode)
	}

	if cfg.AppMode == ModeCloud && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when APP_MODE=cloud - set it in .env file")
	}

	if cfg.StoreBackend != "disk" && cfg.StoreBackend != "mongo" {
		return nil, fmt.Errorf("STORE_BACKEND must be 'disk' or 'mongo', got %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
