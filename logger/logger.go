package logger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel string

const (
	LevelInfo     LogLevel = "INFO"
	LevelWarn     LogLevel = "WARN"
	LevelError    LogLevel = "ERROR"
	LevelSecurity LogLevel = "SECURITY"
)

const (
	EventValidationFailure = "VALIDATION_FAILURE"
	EventAccessDenied      = "ACCESS_DENIED"
	EventInvalidToken      = "INVALID_TOKEN"
	EventExpiredToken      = "EXPIRED_TOKEN"
	EventRateLimited       = "RATE_LIMITED"
	EventServiceStartup    = "SERVICE_STARTUP"
	EventServiceShutdown   = "SERVICE_SHUTDOWN"
	EventDBConnection      = "DB_CONNECTION"
	EventDBError           = "DB_ERROR"
	EventStorageError      = "STORAGE_ERROR"
	EventGeneral           = "GENERAL"

	EventArtistRegistered   = "ARTIST_REGISTERED"
	EventSinglePublished    = "SINGLE_PUBLISHED"
	EventSingleUpdated      = "SINGLE_UPDATED"
	EventSingleDeleted      = "SINGLE_DELETED"
	EventAlbumCreated       = "ALBUM_CREATED"
	EventAlbumUpdated       = "ALBUM_UPDATED"
	EventAlbumDeleted       = "ALBUM_DELETED"
	EventGenreRollup        = "GENRE_ROLLUP"
	EventStatsUpdated       = "STATS_UPDATED"
	EventAwardCrossed       = "AWARD_CROSSED"
	EventNotificationSent   = "NOTIFICATION_SENT"
	EventNotificationFailed = "NOTIFICATION_FAILURE"
)

type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Service   string                 `json:"service"`
	EventType string                 `json:"event_type"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Hmac      string                 `json:"hmac"`
}

type Config struct {
	ServiceName string
	Environment string
	LogFilePath string
	HMACKey     string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

type Logger struct {
	config  Config
	writer  io.Writer
	hmacKey []byte
	mu      sync.Mutex
}

var sensitiveFields = map[string]bool{
	"password":      true,
	"new_password":  true,
	"token":         true,
	"access_token":  true,
	"secret":        true,
	"authorization": true,
	"cookie":        true,
	"jwt":           true,
	"api_key":       true,
	"smtp_password": true,
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

var stackTraceIndicators = []string{
	"goroutine ",
	"\truntime/",
	"\tnet/http/",
	"runtime.goexit",
	"panic(",
}

var (
	instance   *Logger
	instanceMu sync.RWMutex
)

func Init(cfg Config) {
	l := NewLogger(cfg)
	instanceMu.Lock()
	instance = l
	instanceMu.Unlock()
}

// SetLogger replaces the package logger and returns the previous one.
func SetLogger(l *Logger) *Logger {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	prev := instance
	instance = l
	return prev
}

func GetLogger() *Logger {
	instanceMu.RLock()
	l := instance
	instanceMu.RUnlock()
	if l != nil {
		return l
	}

	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = NewWriterLogger(Config{ServiceName: "catalog-service", Environment: "development"}, os.Stdout)
	}
	return instance
}

// NewWriterLogger builds a logger that writes only to w.
func NewWriterLogger(cfg Config, w io.Writer) *Logger {
	if cfg.HMACKey == "" {
		cfg.HMACKey = "default-hmac-key-change-in-production"
	}
	return &Logger{config: cfg, writer: w, hmacKey: []byte(cfg.HMACKey)}
}

// NewLogger writes to stdout and, when the log directory is usable, to a
// rotated file.
func NewLogger(cfg Config) *Logger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}
	if cfg.LogFilePath == "" {
		cfg.LogFilePath = fmt.Sprintf("/var/log/%s/app.log", cfg.ServiceName)
	}

	writers := []io.Writer{os.Stdout}

	logDir := filepath.Dir(cfg.LogFilePath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Cannot create log directory %s: %v, using stdout only\n", logDir, err)
	} else {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
		ensureFilePermissions(cfg.LogFilePath)
	}
	return NewWriterLogger(cfg, io.MultiWriter(writers...))
}

func ensureFilePermissions(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err == nil {
		f.Close()
	}
	os.Chmod(path, 0600)
}

func (l *Logger) log(level LogLevel, eventType, message string, details map[string]interface{}) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.config.ServiceName,
		EventType: eventType,
		Message:   l.sanitizeString(message),
		Details:   l.sanitizeDetails(details),
	}
	entry.Hmac = l.computeHMAC(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(append(data, '\n'))
}

func (l *Logger) Info(eventType, message string, details map[string]interface{}) {
	l.log(LevelInfo, eventType, message, details)
}

func (l *Logger) Warn(eventType, message string, details map[string]interface{}) {
	l.log(LevelWarn, eventType, message, details)
}

func (l *Logger) Error(eventType, message string, details map[string]interface{}) {
	l.log(LevelError, eventType, message, details)
}

func (l *Logger) Security(eventType, message string, details map[string]interface{}) {
	l.log(LevelSecurity, eventType, message, details)
}

func (l *Logger) Fatal(eventType, message string, details map[string]interface{}) {
	l.log(LevelError, eventType, message, details)
	os.Exit(1)
}

func Info(eventType, message string, details map[string]interface{}) {
	GetLogger().Info(eventType, message, details)
}
func Warn(eventType, message string, details map[string]interface{}) {
	GetLogger().Warn(eventType, message, details)
}
func Error(eventType, message string, details map[string]interface{}) {
	GetLogger().Error(eventType, message, details)
}
func Security(eventType, message string, details map[string]interface{}) {
	GetLogger().Security(eventType, message, details)
}
func Fatal(eventType, message string, details map[string]interface{}) {
	GetLogger().Fatal(eventType, message, details)
}

// Fields turns alternating key/value arguments into a details map. Non-string
// keys are skipped.
func Fields(kv ...interface{}) map[string]interface{} {
	details := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		details[key] = kv[i+1]
	}
	return details
}

// Verify reports whether entry still carries the signature computed at write time.
func (l *Logger) Verify(entry LogEntry) bool {
	return hmac.Equal([]byte(entry.Hmac), []byte(l.computeHMAC(entry)))
}

func (l *Logger) computeHMAC(entry LogEntry) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s", entry.Timestamp, entry.Level, entry.Service, entry.EventType, entry.Message)
	mac := hmac.New(sha256.New, l.hmacKey)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func (l *Logger) sanitizeDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(details))
	for k, v := range details {
		sanitized[k] = l.sanitizeValue(k, v)
	}
	return sanitized
}

func (l *Logger) sanitizeValue(key string, value interface{}) interface{} {
	if sensitiveFields[strings.ToLower(key)] {
		return "[REDACTED]"
	}
	switch v := value.(type) {
	case string:
		return l.sanitizeString(v)
	case error:
		return l.sanitizeString(v.Error())
	case map[string]interface{}:
		return l.sanitizeDetails(v)
	default:
		return v
	}
}

func (l *Logger) sanitizeString(s string) string {
	s = emailRegex.ReplaceAllStringFunc(s, maskEmail)
	if l.config.Environment == "production" {
		s = removeStackTraces(s)
	}
	return s
}

func maskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "[REDACTED_EMAIL]"
	}
	local := parts[0]
	if len(local) <= 2 {
		return "**@" + parts[1]
	}
	return local[:2] + "***@" + parts[1]
}

func removeStackTraces(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if !isStackTraceLine(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isStackTraceLine(line string) bool {
	for _, pattern := range stackTraceIndicators {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}
