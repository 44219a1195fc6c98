package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	debugLog *log.Logger
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	logMutex sync.Mutex
	logOnce  sync.Once
)

// SetupLogging wires the leveled loggers to stdout/stderr plus rotated
// files under logDir. Safe to call more than once.
func SetupLogging(logDir string) {
	logOnce.Do(func() {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Fatalf("Failed to create log directory: %v", err)
		}

		infoFile := rotatedLogFile(filepath.Join(logDir, "info.log"))
		warnFile := rotatedLogFile(filepath.Join(logDir, "warn.log"))
		errorFile := rotatedLogFile(filepath.Join(logDir, "error.log"))

		infoWriter := io.MultiWriter(os.Stdout, infoFile)
		warnWriter := io.MultiWriter(os.Stdout, warnFile)
		errorWriter := io.MultiWriter(os.Stderr, errorFile)

		debugLog = log.New(infoWriter, "DEBUG: ", log.Ldate|log.Ltime)
		infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
		warnLog = log.New(warnWriter, "WARNING: ", log.Ldate|log.Ltime)
		errorLog = log.New(errorWriter, "ERROR: ", log.Ldate|log.Ltime)

		// Override Go's default log
		log.SetOutput(infoWriter)
	})
}

func rotatedLogFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logAt(logger *log.Logger, format string, v ...interface{}) {
	if logger == nil {
		// Logging not set up yet (tests, early init)
		log.Printf(format, v...)
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	logger.Printf("[%s] %s", getCallerInfo(), fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	logAt(debugLog, format, v...)
}

func Info(format string, v ...interface{}) {
	logAt(infoLog, format, v...)
}

func Warn(format string, v ...interface{}) {
	logAt(warnLog, format, v...)
}

func Error(format string, v ...interface{}) {
	logAt(errorLog, format, v...)
}
