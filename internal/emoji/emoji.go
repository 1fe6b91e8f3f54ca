package emoji

import "sync/atomic"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":        {"❌", "[ERR]"},
	"warning":      {"⚠️", "[WRN]"},
	"info":         {"ℹ️", "[INF]"},
	"success":      {"✅", "[OK]"},
	"medium":       {"🟡", "[MED]"},
	"low":          {"🔴", "[LOW]"},
	"palm":         {"🌴", "[PALM]"},
	"healthy":      {"🌿", "[OK]"},
	"disease":      {"🦠", "[DIS]"},
	"symptoms":     {"🔍", "[SYM]"},
	"treatment":    {"💊", "[TRT]"},
	"prevention":   {"🛡️", "[PRV]"},
	"alternatives": {"⚖️", "[ALT]"},
	"upload":       {"📤", "[UP]"},
	"image":        {"🖼️", "[IMG]"},
	"report":       {"📄", "[RPT]"},
	"statistics":   {"📊", "[STATS]"},
	"help":         {"❓", "[?]"},
	"theme":        {"🌓", "[THEME]"},
	"watch":        {"👀", "[WATCH]"},
	"door":         {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on the global no-emoji setting
func GetEmoji(key string) string {
	return Lookup(key, !IsEmojiDisabled())
}

// Lookup returns the emoji for key, or its text fallback when enabled is false
func Lookup(key string, enabled bool) string {
	mapping, exists := emojiMap[key]
	if !exists {
		return "[?]"
	}
	if enabled {
		return mapping[0]
	}
	return mapping[1]
}
