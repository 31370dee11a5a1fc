package utils

import (
	ua "github.com/mssola/user_agent"
)

// ClientInfo is the part of a User-Agent worth logging
type ClientInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Mobile  bool   `json:"mobile"`
	Bot     bool   `json:"bot"`
}

// ParseUserAgent extracts browser and OS from a User-Agent header
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" {
		return ClientInfo{Browser: "Unknown", OS: "Unknown"}
	}

	parser := ua.New(userAgent)
	info := ClientInfo{
		Browser: "Unknown",
		OS:      "Unknown",
		Mobile:  parser.Mobile(),
		Bot:     parser.Bot(),
	}

	if name, version := parser.Browser(); name != "" {
		info.Browser = name
		if version != "" {
			info.Browser += " " + version
		}
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = os.Name
		if os.Version != "" {
			info.OS += " " + os.Version
		}
	}

	return info
}
