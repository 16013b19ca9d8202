package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

type Logger struct {
	logger *log.Logger
	level  Level

	mu   sync.RWMutex
	hook Hook
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// Hook получает каждую запись, прошедшую фильтр уровня.
// Используется для отправки логов во внешнюю систему (CloudWatch Logs).
type Hook func(level, msg string, fields map[string]interface{})

func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter создает логгер, пишущий в w
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{
		logger: log.New(w, "", 0),
		level:  parseLevel(level),
	}
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// SetHook устанавливает hook; nil отключает отправку
func (l *Logger) SetHook(hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hook = hook
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log("DEBUG", msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.log("INFO", msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.log("WARN", msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log("ERROR", msg, args...)
	}
}

func (l *Logger) log(level, msg string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf("[%s] [%s] %s", timestamp, level, msg)

	if len(args) > 0 {
		message += " |"
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				message += fmt.Sprintf(" %v=%v", args[i], args[i+1])
			}
		}
	}

	l.logger.Println(message)

	l.mu.RLock()
	hook := l.hook
	l.mu.RUnlock()
	if hook != nil {
		hook(level, msg, fields(args))
	}
}

func fields(args []interface{}) map[string]interface{} {
	if len(args) < 2 {
		return nil
	}
	result := make(map[string]interface{}, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		result[fmt.Sprint(args[i])] = args[i+1]
	}
	return result
}
