//go:build release

package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dixieflatline76/UnsplashedPaper/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	logDir, err := logDirectory()
	if err != nil {
		log.Fatalf("Failed to resolve log directory: %v", err)
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, config.AppName+config.LogExt),
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	})
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// logDirectory lives under the user cache dir on Windows and macOS, and under
// a dot directory in $HOME elsewhere.
func logDirectory() (string, error) {
	switch runtime.GOOS {
	case "windows", "darwin":
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, config.LogWinSubDir), nil
	default:
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, config.LogSubDir), nil
	}
}

// Print calls the standard log.Print()
func Print(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Println calls the standard log.Println()
func Println(v ...interface{}) {
	log.Output(2, fmt.Sprintln(v...))
}

// Fatal logs and exits with status 1.
func Fatal(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Fatalln logs and exits with status 1.
func Fatalln(v ...interface{}) {
	log.Output(2, fmt.Sprintln(v...))
	os.Exit(1)
}

// Debug is a no-op in release builds.
func Debug(v ...interface{}) {}

// Debugf is a no-op in release builds.
func Debugf(format string, v ...interface{}) {}
