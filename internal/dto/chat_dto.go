package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	// Optional hint; detection still runs on every turn.
	Language string `json:"language,omitempty" validate:"omitempty,oneof=en fr ar"`
}

type CreateSessionResponse struct {
	Id           uuid.UUID `json:"id"`
	LanguageCode string    `json:"language_code"`
	LanguageName string    `json:"language_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Chat      string    `json:"chat" validate:"required"`
}

type SendChatResponse struct {
	SessionId        uuid.UUID `json:"session_id"`
	Reply            string    `json:"reply"`
	FocusModel       string    `json:"focus_model,omitempty"`
	RecognizedModels []string  `json:"recognized_models,omitempty"`
	LanguageCode     string    `json:"language_code"`
	LanguageName     string    `json:"language_name"`
	DialectTag       string    `json:"dialect_tag,omitempty"`
	InFlow           bool      `json:"in_flow"`
}

type GetAllSessionsResponse struct {
	Id           uuid.UUID `json:"id"`
	LanguageCode string    `json:"language_code"`
	FocusModel   string    `json:"focus_model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}
