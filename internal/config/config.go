package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Ai       AIConfig
	Catalog  CatalogConfig
	Dialogue DialogueConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	DialogueLogPath    string
	CorsAllowedOrigins string
}

type AIConfig struct {
	LLMProvider          string // "groq" or "ollama"
	LLMModel             string // e.g. "llama-3.1-8b-instant", "qwen2.5"
	GroqAPIKey           string
	GroqBaseURL          string
	OllamaBaseURL        string
	EmbeddingProvider    string // "ollama" or "gemini"
	OllamaEmbeddingModel string
	GeminiAPIKey         string
}

type CatalogConfig struct {
	DataFile     string
	KeywordsFile string
}

// DialogueConfig names every tunable the turn router depends on. These are
// policy knobs, not inline literals.
type DialogueConfig struct {
	RetrievalTopK                int     // semantic candidates checked against the model filter
	DetectionConfidenceThreshold float64 // dialect service verdicts below this are inconclusive
	DialectIndicatorThreshold    int     // indicator keyword hits that force a service call
	TurnWindow                   int     // exchanges kept as LLM context
	UIHistoryLimit               int     // messages kept for display
	SessionTTLMinutes            int
	DialectServiceURL            string
	DialectServiceTimeoutSec     int
	TranslateServiceURL          string
	TranslateServiceTimeoutSec   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			DialogueLogPath:    getEnv("DIALOGUE_LOG_PATH", "logs/dialogue.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "groq"),
			LLMModel:             getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			GroqAPIKey:           getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:          getEnv("GROQ_BASE_URL", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Catalog: CatalogConfig{
			DataFile:     getEnv("CATALOG_DATA_FILE", "data.json"),
			KeywordsFile: getEnv("LANGUAGE_KEYWORDS_FILE", ""),
		},
		Dialogue: DialogueConfig{
			RetrievalTopK:                getEnvAsInt("RETRIEVAL_TOP_K", 5),
			DetectionConfidenceThreshold: getEnvAsFloat("DIALECT_CONFIDENCE_THRESHOLD", 0.7),
			DialectIndicatorThreshold:    getEnvAsInt("DIALECT_INDICATOR_THRESHOLD", 2),
			TurnWindow:                   getEnvAsInt("TURN_WINDOW_EXCHANGES", 7),
			UIHistoryLimit:               getEnvAsInt("UI_HISTORY_LIMIT", 35),
			SessionTTLMinutes:            getEnvAsInt("SESSION_TTL_MINUTES", 60),
			DialectServiceURL:            getEnv("DIALECT_DETECTION_SERVICE_URL", ""),
			DialectServiceTimeoutSec:     getEnvAsInt("DIALECT_DETECTION_TIMEOUT_SEC", 5),
			TranslateServiceURL:          getEnv("DIALECT_TRANSLATION_SERVICE_URL", ""),
			TranslateServiceTimeoutSec:   getEnvAsInt("DIALECT_TRANSLATION_TIMEOUT_SEC", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
