package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Qdrant    QdrantConfig
	Temporal  TemporalConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
	Index     IndexConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Mode        string
	ReadTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// StorageConfig selects where uploads are persisted. Backend is either
// "disk" or "s3".
type StorageConfig struct {
	Backend   string
	UploadDir string
	S3        S3Config
}

type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type QdrantConfig struct {
	Host       string
	Port       int
	Collection string
}

type TemporalConfig struct {
	Enabled   bool
	HostPort  string
	Namespace string
	TaskQueue string
}

// LLMConfig points at an OpenAI-compatible chat completion API.
type LLMConfig struct {
	BaseURL       string
	APIKey        string
	ChatModel     string
	ReasonerModel string
}

type EmbeddingConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	BatchSize int
}

type SearchConfig struct {
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
}

type IndexConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Mode:        getEnv("GIN_MODE", "debug"),
			ReadTimeout: getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "assistgen"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "disk"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			S3: S3Config{
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				Region:       getEnv("S3_REGION", "us-east-1"),
				Bucket:       getEnv("S3_BUCKET", "assistgen-uploads"),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", true),
			},
		},
		Qdrant: QdrantConfig{
			Host:       getEnv("QDRANT_HOST", "localhost"),
			Port:       getEnvAsInt("QDRANT_PORT", 6334),
			Collection: getEnv("QDRANT_COLLECTION", "documents"),
		},
		Temporal: TemporalConfig{
			Enabled:   getEnvAsBool("TEMPORAL_ENABLED", false),
			HostPort:  getEnv("TEMPORAL_HOST_PORT", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			TaskQueue: getEnv("TEMPORAL_TASK_QUEUE", "ingest-task-queue"),
		},
		LLM: LLMConfig{
			BaseURL:       getEnv("LLM_BASE_URL", "https://api.deepseek.com/v1"),
			APIKey:        getEnv("LLM_API_KEY", ""),
			ChatModel:     getEnv("LLM_CHAT_MODEL", "deepseek-chat"),
			ReasonerModel: getEnv("LLM_REASONER_MODEL", "deepseek-reasoner"),
		},
		Embedding: EmbeddingConfig{
			BaseURL:   getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			Model:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			BatchSize: getEnvAsInt("EMBEDDING_BATCH_SIZE", 64),
		},
		Search: SearchConfig{
			Endpoint:   getEnv("SEARCH_ENDPOINT", "https://api.duckduckgo.com/"),
			MaxResults: getEnvAsInt("SEARCH_MAX_RESULTS", 5),
			Timeout:    getEnvAsDuration("SEARCH_TIMEOUT", 10*time.Second),
		},
		Index: IndexConfig{
			ChunkSize:    getEnvAsInt("INDEX_CHUNK_SIZE", 512),
			ChunkOverlap: getEnvAsInt("INDEX_CHUNK_OVERLAP", 50),
			TopK:         getEnvAsInt("INDEX_TOP_K", 5),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
