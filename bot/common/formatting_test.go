package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-123:     "-123",
		-1234:    "-1,234",
		-1234567: "-1,234,567",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatBalance(input))
	}
}

func TestFormatTransferResult(t *testing.T) {
	got := FormatTransferResult(1500, "12345", 3500)
	assert.Equal(t, "✅ Transferred **1,500 credits** to <@12345>. Your new balance: **3,500 credits**", got)
}

func TestFormatDiscordTimestamp(t *testing.T) {
	moment := time.Unix(1750000000, 0)
	assert.Equal(t, "<t:1750000000:R>", FormatDiscordTimestamp(moment, "R"))
}

func TestParseMention(t *testing.T) {
	assert.Equal(t, "12345", ParseMention("<@12345>"))
	assert.Equal(t, "12345", ParseMention("<@!12345>"))
	assert.Equal(t, "12345", ParseMention("12345"))
	assert.Equal(t, "", ParseMention(""))
}
