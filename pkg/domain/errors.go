package domain

import (
	"errors"
	"fmt"
	"time"
)

// ユーザーに表示する固定メッセージなのだ。プロバイダの生のエラー文はここに混ぜません。
const (
	MsgCharacterFieldsRequired = "Please fill out at least the Name and Role fields."
	MsgEnvironmentRequired     = "Please describe the environment."
	MsgRosterRequired          = "Please add at least one character to the roster first."
	MsgPromptRequired          = "Prompt cannot be empty. Please compose one first."
	MsgStoryboardRequired      = "Please add at least one storyboard image."
	MsgScriptRequired          = "Please write a script for the voice-over."

	MsgComposeFailed    = "Failed to compose the prompt. Please try again."
	MsgImageFailed      = "Failed to generate image. Please check your configuration and try again."
	MsgImageNoPayload   = "No image data found in the response."
	MsgVideoFailed      = "Failed to generate video. Please try again."
	MsgVoiceFailed      = "Failed to generate voice-over. Please try again."
	MsgPreviewFailed    = "Failed to preview the voice. Please try again."
	MsgAuthFailed       = "Your API key is invalid or was not found. Please select a valid key and try again."
	MsgVideoPollTimeout = "Video generation took too long and was stopped."
)

// ErrRequestInFlight は同じ種類の生成がすでに実行中であることを示します。
var ErrRequestInFlight = errors.New("a request of this kind is already in progress")

// ValidationError は必須入力が欠けていることを示します。リモート呼び出しは行われません。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FailureKind は生成失敗の分類です。
type FailureKind int

const (
	// FailureGeneric は認証以外の失敗です。
	FailureGeneric FailureKind = iota
	// FailureAuth は認証情報の欠落・不正・未検出による失敗で、再選択を促します。
	FailureAuth
)

func (k FailureKind) String() string {
	if k == FailureAuth {
		return "auth"
	}
	return "generic"
}

// FailureReason は失敗の原因です。
type FailureReason int

const (
	ReasonRequestFailed FailureReason = iota
	ReasonNoPayload
)

func (r FailureReason) String() string {
	if r == ReasonNoPayload {
		return "no_payload"
	}
	return "request_failed"
}

// GenerationError はリモート生成の失敗です。Error() はユーザー向けの固定文だけを返し、
// 原因は Unwrap で取り出せるのだ。
type GenerationError struct {
	Operation string
	Kind      FailureKind
	Reason    FailureReason
	Message   string
	Cause     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// IsAuth は認証系の失敗かどうかを返します。
func (e *GenerationError) IsAuth() bool {
	return e.Kind == FailureAuth
}

// DecodeError はレスポンスは届いたが中身が壊れていて復号できないことを示します。
type DecodeError struct {
	Format string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s のデコードに失敗しました: %v", e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// TimeoutError は動画生成のポーリングが上限時間を超えたことを示します。
type TimeoutError struct {
	Operation string
	Elapsed   time.Duration
}

func (e *TimeoutError) Error() string {
	return MsgVideoPollTimeout
}
