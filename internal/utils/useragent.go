package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientInfo is the parsed User-Agent of an API caller
type ClientInfo struct {
	Device  string `json:"device"` // mobile, tablet, desktop, bot, unknown
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

var tabletMarkers = []string{"ipad", "tablet", "kindle", "sm-t", "nexus 7", "nexus 9"}

// ParseClient extracts device, OS and browser from a User-Agent header
func ParseClient(userAgent string) ClientInfo {
	if strings.TrimSpace(userAgent) == "" {
		return ClientInfo{Device: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	info := ClientInfo{
		Device:  "desktop",
		OS:      "Unknown",
		Browser: "Unknown",
	}

	switch {
	case parser.Bot():
		info.Device = "bot"
	case parser.Mobile() && isTablet(userAgent):
		info.Device = "tablet"
	case parser.Mobile():
		info.Device = "mobile"
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}
	if name, version := parser.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	return info
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
