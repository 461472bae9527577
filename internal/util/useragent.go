package util

import ua "github.com/mileusna/useragent"

// ClientInfo is a parsed user agent summary stored with visits and
// contact messages.
type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent extracts browser, OS and device class from a raw
// User-Agent header. Unknown values come back empty.
func ParseUserAgent(raw string) ClientInfo {
	if raw == "" {
		return ClientInfo{}
	}
	parsed := ua.Parse(raw)

	info := ClientInfo{Browser: parsed.Name, OS: parsed.OS}
	switch {
	case parsed.Bot:
		info.Device = "bot"
	case parsed.Mobile:
		info.Device = "mobile"
	case parsed.Tablet:
		info.Device = "tablet"
	case parsed.Desktop:
		info.Device = "desktop"
	}
	return info
}
