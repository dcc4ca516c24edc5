package bootstrap

import (
	"log"
	"time"

	"tv-assist-be/internal/config"
	"tv-assist-be/internal/controller"
	"tv-assist-be/internal/pkg/logger"
	"tv-assist-be/internal/repository/memory"
	"tv-assist-be/internal/service"
	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/dialect"
	"tv-assist-be/pkg/dialogue"
	"tv-assist-be/pkg/embedding"
	"tv-assist-be/pkg/language"
	"tv-assist-be/pkg/llm/factory"
	"tv-assist-be/pkg/retrieval"
	"tv-assist-be/pkg/translate"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Exposed for graceful shutdown in main.go
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	dialogueLogger := service.NewDialogueLogger(cfg.App.DialogueLogPath)

	// 2. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	llmBaseURL := cfg.Ai.OllamaBaseURL
	llmAPIKey := ""
	if cfg.Ai.LLMProvider == "groq" {
		llmBaseURL = cfg.Ai.GroqBaseURL
		llmAPIKey = cfg.Ai.GroqAPIKey
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		llmAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Knowledge Base
	records, err := catalog.Load(cfg.Catalog.DataFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load troubleshooting catalog: %v", err)
	}
	log.Printf("[INFO] Loaded %d troubleshooting records from %s", len(records), cfg.Catalog.DataFile)

	engine := retrieval.NewEngine(embeddingProvider, records, dialogueLogger)
	if err := engine.Build(); err != nil {
		log.Fatalf("[FATAL] Failed to build retrieval index: %v", err)
	}
	log.Printf("[INFO] Retrieval index ready (%d entries)", engine.Size())

	// 4. Language Stack
	keywords, err := language.LoadKeywords(cfg.Catalog.KeywordsFile)
	if err != nil {
		log.Printf("[WARN] Keyword file problem, using built-in defaults: %v", err)
	}

	var detector dialect.Detector
	if cfg.Dialogue.DialectServiceURL != "" {
		detector = dialect.NewClient(
			cfg.Dialogue.DialectServiceURL,
			time.Duration(cfg.Dialogue.DialectServiceTimeoutSec)*time.Second,
		)
		log.Printf("[INFO] Dialect detection service: %s", cfg.Dialogue.DialectServiceURL)
	} else {
		log.Printf("[WARN] Dialect detection service not configured, heuristics only")
	}

	resolver := language.NewResolver(
		keywords,
		detector,
		cfg.Dialogue.DetectionConfidenceThreshold,
		cfg.Dialogue.DialectIndicatorThreshold,
		dialogueLogger,
	)

	var translator translate.Translator
	if cfg.Dialogue.TranslateServiceURL != "" {
		translator = translate.NewClient(
			cfg.Dialogue.TranslateServiceURL,
			time.Duration(cfg.Dialogue.TranslateServiceTimeoutSec)*time.Second,
		)
		log.Printf("[INFO] Darija translation service: %s", cfg.Dialogue.TranslateServiceURL)
	}

	// 5. Dialogue Engine
	generator := dialogue.NewGenerator(llmProvider, dialogueLogger)
	orchestrator := dialogue.NewOrchestrator(
		generator,
		resolver,
		keywords,
		engine,
		records,
		translator,
		cfg.Dialogue.RetrievalTopK,
		dialogueLogger,
	)

	// 6. Sessions and Services
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Dialogue.SessionTTLMinutes) * time.Minute)
	chatService := service.NewChatService(orchestrator, sessionRepo, cfg.Dialogue, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController: controller.NewChatController(chatService),
		Logger:         sysLogger,
	}
}
