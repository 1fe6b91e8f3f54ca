package cli

import (
	"github.com/yildizm/PalmScan/internal/emoji"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// statusSymbol returns the success or error marker
func statusSymbol(ok bool) string {
	if ok {
		return GetEmoji("success")
	}
	return GetEmoji("error")
}
