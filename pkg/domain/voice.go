package domain

import "fmt"

// VoicePreset は音声合成で選べる固定のボイスです。
type VoicePreset string

const (
	VoiceKore   VoicePreset = "Kore"
	VoicePuck   VoicePreset = "Puck"
	VoiceCharon VoicePreset = "Charon"
	VoiceFenrir VoicePreset = "Fenrir"
	VoiceZephyr VoicePreset = "Zephyr"

	DefaultVoice = VoiceKore
)

// VoicePresets は選択肢を表示順で返すのだ。
func VoicePresets() []VoicePreset {
	return []VoicePreset{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir, VoiceZephyr}
}

// ParseVoicePreset は名前からボイスを解決します。空文字は既定のボイスになります。
func ParseVoicePreset(name string) (VoicePreset, error) {
	if name == "" {
		return DefaultVoice, nil
	}
	for _, v := range VoicePresets() {
		if string(v) == name {
			return v, nil
		}
	}
	return "", &ValidationError{
		Field:   "voice",
		Message: fmt.Sprintf("Unknown voice %q. Choose one of Kore, Puck, Charon, Fenrir or Zephyr.", name),
	}
}
