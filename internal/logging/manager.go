package logging

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Компоненты движка, у каждого свой логгер и файл
const (
	ComponentWorld  = "world"
	ComponentEngine = "engine"
	ComponentAPI    = "api"
	ComponentServer = "server"
)

// LoggerManager кеширует логгеры компонентов
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{loggers: make(map[string]*Logger)}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента, создавая его по текущим настройкам
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}
	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("логгер %s: %w", component, err)
	}
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger как GetLogger, но при ошибке файла отдаёт консольный логгер
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		return NewLoggerWithWriter(component, os.Stdout, INFO)
	}
	return logger
}

// SetLevel меняет уровни уже созданного логгера компонента
func (lm *LoggerManager) SetLevel(component string, console, file LogLevel) error {
	lm.mu.Lock()
	logger, ok := lm.loggers[component]
	lm.mu.Unlock()
	if !ok {
		return fmt.Errorf("логгер %s не создан", component)
	}
	logger.setLevels(console, file)
	return nil
}

// SetLevels меняет уровни всех созданных логгеров
func (lm *LoggerManager) SetLevels(console, file LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for _, logger := range lm.loggers {
		logger.setLevels(console, file)
	}
}

// Components имена созданных логгеров по алфавиту
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	names := make([]string, 0, len(lm.loggers))
	for name := range lm.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for name, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", name, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

func GetWorldLogger() *Logger  { return GetLoggerManager().MustGetLogger(ComponentWorld) }
func GetEngineLogger() *Logger { return GetLoggerManager().MustGetLogger(ComponentEngine) }
func GetAPILogger() *Logger    { return GetLoggerManager().MustGetLogger(ComponentAPI) }
func GetServerLogger() *Logger { return GetLoggerManager().MustGetLogger(ComponentServer) }
