// Package config loads process configuration from a .env file and the
// environment. Each section is resolved once and cached.
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

func loadEnv() {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

type ServerConfig struct {
	Port int
}

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()
		serverConfig = &ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		}
	})
	return serverConfig
}

type RedisConfig struct {
	Addr string
	DB   int
}

var (
	redisOnce   sync.Once
	redisConfig *RedisConfig
)

func GetRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		loadEnv()
		redisConfig = &RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
			DB:   getEnvInt("REDIS_DB", 0),
		}
	})
	return redisConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

var (
	geminiOnce   sync.Once
	geminiConfig *GeminiConfig
)

func GetGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		loadEnv()
		geminiConfig = &GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		}
	})
	return geminiConfig
}

type StorageConfig struct {
	Backend  string // local, minio or s3
	LocalDir string
}

var (
	storageOnce   sync.Once
	storageConfig *StorageConfig
)

func GetStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		loadEnv()
		storageConfig = &StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "local"),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "data/uploads"),
		}
	})
	return storageConfig
}

type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Region     string
	BucketName string
}

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()
		minioConfig = &MinioConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:  os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:     getEnv("MINIO_USE_SSL", "false") == "true",
			Region:     os.Getenv("MINIO_REGION"),
			BucketName: getEnv("MINIO_BUCKET_NAME", "medical-reports"),
		}
	})
	return minioConfig
}

type S3Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	BucketName string
}

var (
	s3Once   sync.Once
	s3Config *S3Config
)

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()
		s3Config = &S3Config{
			Region:     getEnv("AWS_REGION", "us-east-1"),
			AccessKey:  os.Getenv("AWS_ACCESS_KEY"),
			SecretKey:  os.Getenv("AWS_SECRET_KEY"),
			BucketName: getEnv("AWS_S3_BUCKET", "medical-reports"),
		}
	})
	return s3Config
}

type TextractConfig struct {
	Enabled   bool
	Region    string
	AccessKey string
	SecretKey string
}

var (
	textractOnce   sync.Once
	textractConfig *TextractConfig
)

func GetTextractConfig() *TextractConfig {
	textractOnce.Do(func() {
		loadEnv()
		textractConfig = &TextractConfig{
			Enabled:   getEnv("TEXTRACT_ENABLED", "false") == "true",
			Region:    getEnv("AWS_REGION", "us-east-1"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY"),
			SecretKey: os.Getenv("AWS_SECRET_KEY"),
		}
	})
	return textractConfig
}

type PipelineConfig struct {
	ThresholdsPath string
	ChatWindow     int
	AICallTimeout  time.Duration
	MaxFileSize    int64
	Concurrency    int
}

var (
	pipelineOnce   sync.Once
	pipelineConfig *PipelineConfig
)

func GetPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		loadEnv()
		pipelineConfig = &PipelineConfig{
			ThresholdsPath: getEnv("THRESHOLDS_PATH", "configs/thresholds.yaml"),
			ChatWindow:     getEnvInt("CHAT_CONTEXT_WINDOW", 10),
			AICallTimeout:  getEnvDuration("AI_CALL_TIMEOUT", 45*time.Second),
			MaxFileSize:    int64(getEnvInt("MAX_FILE_SIZE_MB", 20)) * 1024 * 1024,
			Concurrency:    getEnvInt("WORKER_CONCURRENCY", 10),
		}
	})
	return pipelineConfig
}
