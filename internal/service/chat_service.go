package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tv-assist-be/internal/config"
	"tv-assist-be/internal/constant"
	"tv-assist-be/internal/dto"
	"tv-assist-be/internal/pkg/logger"
	"tv-assist-be/internal/repository/memory"
	"tv-assist-be/pkg/dialogue"
	"tv-assist-be/pkg/language"
	"tv-assist-be/pkg/store"

	"github.com/google/uuid"
)

// IChatService defines the troubleshooting session API surface.
type IChatService interface {
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type chatService struct {
	orchestrator *dialogue.Orchestrator
	sessionRepo  *memory.SessionRepository
	cfg          config.DialogueConfig
	log          logger.ILogger
}

func NewChatService(
	orchestrator *dialogue.Orchestrator,
	sessionRepo *memory.SessionRepository,
	cfg config.DialogueConfig,
	appLogger logger.ILogger,
) IChatService {
	return &chatService{
		orchestrator: orchestrator,
		sessionRepo:  sessionRepo,
		cfg:          cfg,
		log:          appLogger,
	}
}

// NewDialogueLogger builds the isolated file logger shared by the language
// and retrieval components, so chatty per-turn traces stay out of the main
// application log.
func NewDialogueLogger(logPath string) *log.Logger {
	if logPath == "" {
		logPath = filepath.Join(".", "logs", "dialogue.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[DIALOGUE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	code := constant.DefaultLanguageCode
	if request != nil && request.Language != "" {
		code = request.Language
	}
	name := language.LanguageName(code)

	sess := store.NewSession(uuid.NewString(), code, name, cs.cfg.TurnWindow, cs.cfg.UIHistoryLimit)
	cs.sessionRepo.Save(sess)

	cs.log.Info("chat_service", "session created", map[string]interface{}{
		"session_id": sess.ID,
		"language":   code,
	})

	id, err := uuid.Parse(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	return &dto.CreateSessionResponse{
		Id:           id,
		LanguageCode: sess.LanguageCode,
		LanguageName: sess.LanguageName,
		CreatedAt:    sess.CreatedAt,
	}, nil
}

func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	input := strings.TrimSpace(request.Chat)
	if input == "" {
		return nil, fmt.Errorf("chat message is empty")
	}

	sessionID := request.SessionId.String()

	// Turns for the same session run one at a time.
	cs.sessionRepo.Lock(sessionID)
	defer cs.sessionRepo.Unlock(sessionID)

	sess, found := cs.sessionRepo.Get(sessionID)
	if !found {
		return nil, fmt.Errorf("session %s not found or expired", sessionID)
	}

	sess.AddTurn(store.RoleUser, input)
	reply := cs.orchestrator.ProcessTurn(ctx, sess, input)
	sess.AddTurn(store.RoleAssistant, reply)
	cs.sessionRepo.Save(sess)

	cs.log.Info("chat_service", "turn processed", map[string]interface{}{
		"session_id":  sessionID,
		"language":    sess.LanguageCode,
		"focus_model": sess.FocusModel,
		"in_flow":     sess.InFlow,
	})

	return &dto.SendChatResponse{
		SessionId:        request.SessionId,
		Reply:            reply,
		FocusModel:       sess.FocusModel,
		RecognizedModels: sess.RecognizedModels,
		LanguageCode:     sess.LanguageCode,
		LanguageName:     sess.LanguageName,
		DialectTag:       sess.DialectTag,
		InFlow:           sess.InFlow,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	sessions := cs.sessionRepo.List()
	res := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, sess := range sessions {
		id, err := uuid.Parse(sess.ID)
		if err != nil {
			continue
		}
		res = append(res, &dto.GetAllSessionsResponse{
			Id:           id,
			LanguageCode: sess.LanguageCode,
			FocusModel:   sess.FocusModel,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		})
	}
	return res, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	sess, found := cs.sessionRepo.Get(sessionId.String())
	if !found {
		return nil, fmt.Errorf("session %s not found or expired", sessionId)
	}

	history := sess.UIHistory()
	res := make([]*dto.GetChatHistoryResponse, 0, len(history))
	for _, entry := range history {
		res = append(res, &dto.GetChatHistoryResponse{
			Role:      entry.Role,
			Chat:      entry.Content,
			CreatedAt: entry.Timestamp,
		})
	}
	return res, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	if _, found := cs.sessionRepo.Get(sessionId.String()); !found {
		return fmt.Errorf("session %s not found or expired", sessionId)
	}
	cs.sessionRepo.Delete(sessionId.String())
	cs.log.Info("chat_service", "session deleted", map[string]interface{}{
		"session_id": sessionId.String(),
	})
	return nil
}
