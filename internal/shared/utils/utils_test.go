package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Áo thun Nam 2024", "ao-thun-nam-2024"},
		{"  Đồng hồ -- thông minh!! ", "dong-ho-thong-minh"},
		{"Sữa Rửa Mặt", "sua-rua-mat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.in), tt.in)
	}
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(10)
	require.NoError(t, err)
	assert.Len(t, code, 10)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r))
	}
}

func TestParseStringToUUID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, ParseStringToUUID(id.String()))
	assert.Equal(t, uuid.Nil, ParseStringToUUID("nope"))
}

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first ip", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "5.5.5.5:80", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "8.8.8.8"}, "5.5.5.5:80", "8.8.8.8"},
		{"ipv6 loopback", nil, "[::1]:5000", "127.0.0.1"},
		{"invalid forwarded falls back", map[string]string{"X-Forwarded-For": "garbage"}, "9.9.9.9:1", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}
