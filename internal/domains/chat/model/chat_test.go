package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageTypeFromMime(t *testing.T) {
	tests := map[string]MessageType{
		"image/png":       MessageImage,
		"audio/mpeg":      MessageAudio,
		"video/mp4":       MessageVideo,
		"application/pdf": MessageFile,
		"":                MessageFile,
	}
	for mime, want := range tests {
		assert.Equal(t, want, MessageTypeFromMime(mime), mime)
	}
}

func TestRecentMessagesDefaults(t *testing.T) {
	req := RecentMessagesRequest{Skip: -1, Take: 0}
	req.Normalize()
	assert.Equal(t, 0, req.Skip)
	assert.Equal(t, 10, req.Take)
}
