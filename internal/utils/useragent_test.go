package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClient(t *testing.T) {
	tests := []struct {
		name   string
		ua     string
		device string
		os     string
	}{
		{
			name:   "empty",
			ua:     "",
			device: "unknown",
			os:     "Unknown",
		},
		{
			name:   "android phone",
			ua:     "Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
			device: "mobile",
			os:     "Android 12",
		},
		{
			name:   "ipad",
			ua:     "Mozilla/5.0 (iPad; CPU OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
			device: "tablet",
		},
		{
			name:   "googlebot",
			ua:     "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			device: "bot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseClient(tt.ua)
			assert.Equal(t, tt.device, info.Device)
			if tt.os != "" {
				assert.Equal(t, tt.os, info.OS)
			}
		})
	}
}

func TestParseClient_Browser(t *testing.T) {
	info := ParseClient("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36")
	assert.Equal(t, "desktop", info.Device)
	assert.Contains(t, info.Browser, "Chrome")
}
