package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки конфигурации (регистр не важен)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
	}
}

// Logger логгер компонента: консоль и необязательный файл
type Logger struct {
	mu              sync.Mutex
	component       string
	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

// Настройки, применяемые к новым логгерам
var (
	settingsMu   sync.RWMutex
	logDir       string
	consoleLevel = INFO
	fileLevel    = DEBUG
)

// Глобальный логгер для package-level функций
var defaultLogger = NewLoggerWithWriter(ComponentServer, os.Stdout, INFO)

// InitLogger задаёт директорию файлов логов и уровни для новых логгеров,
// затем пересоздаёт логгер по умолчанию. Пустая директория означает только консоль.
func InitLogger(dir string, console, file LogLevel) error {
	settingsMu.Lock()
	logDir = dir
	consoleLevel = console
	fileLevel = file
	settingsMu.Unlock()
	GetLoggerManager().SetLevels(console, file)

	logger, err := NewLogger(ComponentServer)
	if err != nil {
		return err
	}
	old := defaultLogger
	defaultLogger = logger
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseLogger закрывает логгер по умолчанию и все логгеры компонентов
func CloseLogger() {
	if defaultLogger != nil {
		_ = defaultLogger.Close()
	}
	_ = GetLoggerManager().CloseAll()
}

// NewLogger создаёт логгер компонента по текущим настройкам.
// При заданной директории пишет ещё и в файл <component>_<время>.log.
func NewLogger(component string) (*Logger, error) {
	settingsMu.RLock()
	dir, console, fileLvl := logDir, consoleLevel, fileLevel
	settingsMu.RUnlock()

	logger := NewLoggerWithWriter(component, os.Stdout, console)
	logger.minFileLevel = fileLvl
	if dir == "" {
		return logger, nil
	}

	// Создаем директорию для логов
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	logger.file = file
	logger.fileLogger = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, nil
}

// NewLoggerWithWriter создаёт логгер только с консольным выводом в w
func NewLoggerWithWriter(component string, w io.Writer, minLevel LogLevel) *Logger {
	return &Logger{
		component:       component,
		consoleLogger:   log.New(w, "", log.LstdFlags),
		minConsoleLevel: minLevel,
		minFileLevel:    ERROR,
	}
}

func (l *Logger) setLevels(console, file LogLevel) {
	l.mu.Lock()
	l.minConsoleLevel = console
	l.minFileLevel = file
	l.mu.Unlock()
}

// Component имя компонента
func (l *Logger) Component() string {
	return l.component
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileLogger = nil
	return err
}

// Enabled проверяет, будет ли записано сообщение уровня level
func (l *Logger) Enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.minConsoleLevel || (l.fileLogger != nil && level >= l.minFileLevel)
}

func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	writeConsole := level >= l.minConsoleLevel
	writeFile := l.fileLogger != nil && level >= l.minFileLevel
	if !writeConsole && !writeFile {
		return
	}

	message := fmt.Sprintf("[%s] [%s] %s", level.String(), l.component, fmt.Sprintf(format, args...))
	if writeFile {
		l.fileLogger.Println(message)
	}
	if writeConsole {
		l.consoleLogger.Println(message)
	}
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.logMessage(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.logMessage(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.logMessage(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.logMessage(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.logMessage(ERROR, format, args...) }

// Trace логирует через логгер по умолчанию
func Trace(format string, args ...interface{}) { defaultLogger.Trace(format, args...) }

// Debug логирует через логгер по умолчанию
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }

// Info логирует через логгер по умолчанию
func Info(format string, args ...interface{}) { defaultLogger.Info(format, args...) }

// Warn логирует через логгер по умолчанию
func Warn(format string, args ...interface{}) { defaultLogger.Warn(format, args...) }

// Error логирует через логгер по умолчанию
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
