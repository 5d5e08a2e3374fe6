package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Room moderation limits are configurable but ship with the product defaults.
type Config struct {
	ServerPort string

	// 外部音乐目录API配置
	CatalogAPIBaseURL string
	CatalogTimeoutSec int

	// 房间配置
	RoomCodeLength      int
	DefaultRoomCode     string
	DefaultRoomHostID   string
	DefaultRoomHostName string
	MaxQueueSize        int
	MaxSongsPerUser     int
	MaxSongDuration     int // seconds
	QueuePreviewLength  int
	RecentlyPlayedLimit int

	// 模糊查重阈值
	NameSimilarityThreshold float64
	ArtistOverlapThreshold  float64

	// 响应加密 (32 bytes for AES-256, empty disables encryption)
	EncryptionKey string

	// 日志配置
	LogLevel      string
	LogOutputPath string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8000"),

		CatalogAPIBaseURL: getEnv("CATALOG_API_BASE_URL", "https://jiosavan-api-with-playlist.vercel.app"),
		CatalogTimeoutSec: getEnvInt("CATALOG_API_TIMEOUT", 10),

		RoomCodeLength:      getEnvInt("ROOM_CODE_LENGTH", 6),
		DefaultRoomCode:     getEnv("DEFAULT_ROOM_CODE", "DEFAULT"),
		DefaultRoomHostID:   getEnv("DEFAULT_ROOM_HOST_ID", "system"),
		DefaultRoomHostName: getEnv("DEFAULT_ROOM_HOST_NAME", "VibeSync Radio"),
		MaxQueueSize:        getEnvInt("MAX_QUEUE_SIZE", 100),
		MaxSongsPerUser:     getEnvInt("MAX_SONGS_PER_USER", 3),
		MaxSongDuration:     getEnvInt("MAX_SONG_DURATION", 480),
		QueuePreviewLength:  getEnvInt("QUEUE_PREVIEW_LENGTH", 5),
		RecentlyPlayedLimit: getEnvInt("RECENTLY_PLAYED_LIMIT", 10),

		NameSimilarityThreshold: getEnvFloat("NAME_SIMILARITY_THRESHOLD", 0.85),
		ArtistOverlapThreshold:  getEnvFloat("ARTIST_OVERLAP_THRESHOLD", 0.5),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		LogLevel:      getEnv("LOG_LEVEL", "debug"),
		LogOutputPath: getEnv("LOG_OUTPUT_PATH", ""),
	}
}
