package apilog

import "time"

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelNotice  Level = "notice"
	LevelInfo    Level = "info"
)

// LevelForStatus grades an HTTP status code.
func LevelForStatus(status int) Level {
	switch {
	case status >= 500:
		return LevelError
	case status == 401 || status == 403 || status == 429:
		return LevelWarning
	case status >= 400:
		return LevelNotice
	default:
		return LevelInfo
	}
}

// Entry is one persisted error response.
type Entry struct {
	ID         string
	Level      Level
	URL        string
	Method     string
	IP         string
	RequestID  *string
	StatusCode int
	Message    string
	CreatedAt  time.Time
}

const DefaultRetentionDays = 30
