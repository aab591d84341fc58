package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short message", Preview("short message"))

	long := strings.Repeat("a", 150)
	got := Preview(long)
	assert.Equal(t, 100, len([]rune(got)))

	// Truncation counts runes, not bytes.
	multibyte := strings.Repeat("ñ", 120)
	got = Preview(multibyte)
	assert.Equal(t, 100, len([]rune(got)))
	assert.True(t, strings.HasPrefix(multibyte, got))
}

func TestChannelValid(t *testing.T) {
	assert.True(t, ChannelWidget.Valid())
	assert.True(t, ChannelWhatsApp.Valid())
	assert.False(t, Channel("carrier-pigeon").Valid())
}

func TestConversationStatusValid(t *testing.T) {
	for _, s := range []ConversationStatus{StatusOpen, StatusPending, StatusResolved, StatusClosed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ConversationStatus("archived").Valid())
}
