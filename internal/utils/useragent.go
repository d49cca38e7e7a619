package utils

import (
	"fmt"

	"github.com/mssola/user_agent"
)

// DeviceInfo summarizes the client device behind a login request
type DeviceInfo struct {
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	Mobile   bool   `json:"mobile"`
	Bot      bool   `json:"bot"`
	Platform string `json:"platform"`
}

// ParseUserAgent extracts device details from a raw User-Agent string
func ParseUserAgent(raw string) DeviceInfo {
	ua := user_agent.New(raw)

	browserName, browserVersion := ua.Browser()
	browser := browserName
	if browserVersion != "" {
		browser = fmt.Sprintf("%s %s", browserName, browserVersion)
	}

	return DeviceInfo{
		Browser:  browser,
		OS:       ua.OS(),
		Mobile:   ua.Mobile(),
		Bot:      ua.Bot(),
		Platform: ua.Platform(),
	}
}

// String renders a compact one-line device description for audit logs
func (d DeviceInfo) String() string {
	kind := "desktop"
	if d.Mobile {
		kind = "mobile"
	}
	if d.Bot {
		kind = "bot"
	}
	return fmt.Sprintf("%s on %s (%s)", d.Browser, d.OS, kind)
}
