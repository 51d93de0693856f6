package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides leveled, printf-style logging throughout the application.
// Info/Warn/Debug go to stdout, Error to stderr.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
}

// NewLogger creates a new Logger. Debug output is off unless the
// PRICEWATCH_DEBUG environment variable is set.
func NewLogger() *Logger {
	return &Logger{
		info:         log.New(os.Stdout, "", 0),
		warn:         log.New(os.Stdout, "", 0),
		err:          log.New(os.Stderr, "", 0),
		debug:        log.New(os.Stdout, "", 0),
		debugEnabled: os.Getenv("PRICEWATCH_DEBUG") != "",
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
