package dto

import (
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/usecase/editor"
)

type EditRequest struct {
	Content string `json:"content" binding:"required"`
}

type TransformRequest struct {
	Task        string `json:"task" binding:"required,oneof=generate improve eligibility"`
	Instruction string `json:"instruction"`
}

type TranslateRequest struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language" binding:"required"`
}

type RestoreRequest struct {
	Version int `json:"version" binding:"required,gte=1"`
}

type SaveRequest struct {
	Summary *string `json:"summary"`
}

type CloseRequest struct {
	Force bool `json:"force"`
}

type BufferResponse struct {
	Content              string `json:"content"`
	Dirty                bool   `json:"dirty"`
	LastPersistedVersion int    `json:"last_persisted_version"`
}

func ToBufferResponse(buffer editor.Buffer) BufferResponse {
	return BufferResponse{
		Content:              buffer.Content,
		Dirty:                buffer.Dirty,
		LastPersistedVersion: buffer.LastPersistedVersion,
	}
}

type TransformResponse struct {
	Content  string  `json:"content"`
	Insights *string `json:"insights,omitempty"`
}

func ToTransformResponse(result *repository.TransformResult) TransformResponse {
	return TransformResponse{
		Content:  result.Content,
		Insights: result.Insights,
	}
}

type TranslationResponse struct {
	Content        string `json:"content"`
	TargetLanguage string `json:"target_language"`
}

func ToTranslationResponse(result *repository.TranslationResult) TranslationResponse {
	return TranslationResponse{
		Content:        result.Content,
		TargetLanguage: result.TargetLanguage,
	}
}
