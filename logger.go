package cianparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/logging"
)

// Logger is the printf-style logger used across the crawler.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Summary(format string, args ...interface{})
}

// defaultLogger writes to a dated file under storage/logs and to stdout, and optionally mirrors
// every line to Google Cloud Logging.
type defaultLogger struct {
	logger *log.Logger
	file   io.Closer
	remote *logging.Logger
	client *logging.Client
}

// newDefaultLogger creates the site logger. Cloud Logging is attached when GCP_LOGGING is true.
func newDefaultLogger(config *configService, siteName string) *defaultLogger {
	currentDate := time.Now().Format("2006-01-02")
	directory := filepath.Join("storage", "logs", siteName)
	if err := os.MkdirAll(directory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	logFilePath := filepath.Join(directory, currentDate+"_application.log")
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	l := newWriterLogger(io.MultiWriter(file, os.Stdout))
	l.file = file
	if config.EnvBool("GCP_LOGGING") {
		if err := l.attachCloudLogging(config, siteName); err != nil {
			l.Error("Cloud Logging disabled: %v", err)
		}
	}
	return l
}

func newWriterLogger(w io.Writer) *defaultLogger {
	return &defaultLogger{
		logger: log.New(w, "⏱️ ", log.LstdFlags),
	}
}

func (l *defaultLogger) attachCloudLogging(config *configService, siteName string) error {
	projectID, err := resolveProjectID(config)
	if err != nil {
		return err
	}

	client, err := logging.NewClient(context.Background(), projectID, credentialOptions(config)...)
	if err != nil {
		return fmt.Errorf("create logging client: %w", err)
	}
	l.client = client
	l.remote = client.Logger(siteName)
	return nil
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.write(logging.Info, "📢 INFO: ", format, args...)
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	l.write(logging.Warning, "⚠️ WARN: ", format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.write(logging.Error, "🛑 ERROR: ", format, args...)
}

// Summary lines mark crawl milestones: start, per-seed totals, stop.
func (l *defaultLogger) Summary(format string, args ...interface{}) {
	l.write(logging.Notice, "📝 SUMMARY: ", format, args...)
}

func (l *defaultLogger) write(severity logging.Severity, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Print(prefix + msg)
	if l.remote != nil {
		l.remote.Log(logging.Entry{Severity: severity, Payload: msg})
	}
}

// Close flushes buffered Cloud Logging entries and closes the log file.
func (l *defaultLogger) Close() error {
	var errs []error
	if l.client != nil {
		errs = append(errs, l.client.Close())
	}
	if l.file != nil {
		errs = append(errs, l.file.Close())
	}
	return errors.Join(errs...)
}
