package biz

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// ChatClient issues exactly one chat-completion call per invocation. No
// retries, no caching; a failed call surfaces as an error and the caller may
// retry at a higher level.
type ChatClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// FallbackNarrative is returned when the model answers with an empty
// completion. An empty generation is a degraded success, not a failure.
const FallbackNarrative = "분석을 생성할 수 없습니다."

// NarrativeUseCase 비교 수치를 두 줄 요약 문장으로 바꾸는 비즈니스 로직
type NarrativeUseCase struct {
	chat ChatClient
	log  *log.Helper
}

// NewNarrativeUseCase 내러티브 생성 비즈니스 로직 인스턴스 생성
func NewNarrativeUseCase(chat ChatClient, logger log.Logger) *NarrativeUseCase {
	return &NarrativeUseCase{chat: chat, log: log.NewHelper(logger)}
}

// Generate builds the prompt for analysisType and asks the model once. The
// analysis type is validated before any outbound call is attempted.
func (uc *NarrativeUseCase) Generate(ctx context.Context, analysisType string, data json.RawMessage) (string, error) {
	prompt, err := BuildPrompt(analysisType, data)
	if err != nil {
		return "", err
	}

	text, err := uc.chat.Generate(ctx, SystemInstruction, prompt)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("narrative generation failed [%s]: %v", analysisType, err)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		uc.log.WithContext(ctx).Warnf("empty completion for %s, using fallback", analysisType)
		return FallbackNarrative, nil
	}
	return text, nil
}
