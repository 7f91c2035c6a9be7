package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats a credit amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	// Add commas for thousands
	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatTransferResult formats the result of a completed transfer
func FormatTransferResult(amount int64, recipientID string, newBalance int64) string {
	return fmt.Sprintf("✅ Transferred **%s credits** to <@%s>. Your new balance: **%s credits**",
		FormatBalance(amount), recipientID, FormatBalance(newBalance))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
