/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging for FRBDT. Wraps logrus with timestamped log files, selectable output
formats, an async queue for fire-and-forget messages and helpers for training and
evaluation events.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelFatal   LogLevel = "fatal"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON     LogFormat = "json"
	LogFormatText     LogFormat = "text"
	LogFormatCustom   LogFormat = "custom"
	LogFormatTraining LogFormat = "training"
)

// filePrefix names log files as frbdt_<timestamp>.log
const filePrefix = "frbdt_"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"level" yaml:"level"`
	Format    LogFormat `json:"format" mapstructure:"format" yaml:"format"`
	OutputDir string    `json:"output_dir" mapstructure:"output_dir" yaml:"output_dir"` // empty disables file output
	MaxFiles  int       `json:"max_files" mapstructure:"max_files" yaml:"max_files"`
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp" yaml:"timestamp"`
	Caller    bool      `json:"caller" mapstructure:"caller" yaml:"caller"`
	Colors    bool      `json:"colors" mapstructure:"colors" yaml:"colors"`
	Quiet     bool      `json:"quiet" mapstructure:"quiet" yaml:"quiet"` // no console output

	Console io.Writer `json:"-" mapstructure:"-" yaml:"-"` // defaults to os.Stdout
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatTraining,
		OutputDir: "./logs",
		MaxFiles:  10,
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid or missing values.
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom, LogFormatTraining:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelFatal:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

type logEntry struct {
	level  logrus.Level
	msg    string
	fields logrus.Fields
}

// Logger provides FRBDT logging
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	filePath   string
	startTime  time.Time

	logQueue  chan logEntry
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
		logQueue:  make(chan logEntry, 1024),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	go l.runLogQueue()

	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup() error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	if err := l.setFormatter(); err != nil {
		return err
	}

	return l.setupOutput()
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	prettyCaller := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			CallerPrettyfier: prettyCaller,
		})

	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: prettyCaller,
		})

	case LogFormatCustom:
		l.logger.SetFormatter(&CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
		})

	case LogFormatTraining:
		l.logger.SetFormatter(&TrainingFormatter{CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
		}})

	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}

	return nil
}

// setupOutput wires console and file output
func (l *Logger) setupOutput() error {
	var writers []io.Writer
	if !l.config.Quiet {
		console := l.config.Console
		if console == nil {
			console = os.Stdout
		}
		writers = append(writers, console)
	}

	if l.config.OutputDir != "" {
		if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05.000000")
		l.filePath = filepath.Join(l.config.OutputDir, fmt.Sprintf("%s%s.log", filePrefix, timestamp))

		file, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.fileHandle = file
		writers = append(writers, file)
	}

	if len(writers) == 0 {
		l.logger.SetOutput(io.Discard)
		return nil
	}
	l.logger.SetOutput(io.MultiWriter(writers...))

	l.logger.WithFields(logrus.Fields{
		"start_time": l.startTime.Format(time.RFC3339),
		"log_file":   l.filePath,
		"level":      l.config.Level,
		"format":     l.config.Format,
	}).Debug("FRBDT logging initialized")

	return nil
}

// FilePath returns the log file of this run, empty when file output is disabled
func (l *Logger) FilePath() string { return l.filePath }

// cleanup removes the oldest log files beyond MaxFiles
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, filePrefix+"*.log"))
	if err != nil {
		return err
	}

	if len(files) <= l.config.MaxFiles {
		return nil
	}

	// timestamped names sort oldest first
	sort.Strings(files)

	for _, file := range files[:len(files)-l.config.MaxFiles] {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// runLogQueue flushes queued entries until Close, then drains what is left
func (l *Logger) runLogQueue() {
	defer close(l.done)
	for {
		select {
		case entry := <-l.logQueue:
			l.logger.WithFields(entry.fields).Log(entry.level, entry.msg)
		case <-l.quit:
			for {
				select {
				case entry := <-l.logQueue:
					l.logger.WithFields(entry.fields).Log(entry.level, entry.msg)
				default:
					return
				}
			}
		}
	}
}

// Training-specific logging methods

// LogDataset logs a loaded dataset
func (l *Logger) LogDataset(path string, instances, attributes, classes int, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["path"] = path
	fields["instances"] = instances
	fields["attributes"] = attributes
	fields["classes"] = classes

	l.logger.WithFields(fields).Info("Dataset loaded")
}

// LogTraining logs a finished training run
func (l *Logger) LogTraining(modelID string, layers, rules int, averageRuleSize float64, duration time.Duration, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["model"] = modelID
	fields["layers"] = layers
	fields["rules"] = rules
	fields["average_rule_size"] = averageRuleSize
	fields["duration"] = duration

	l.logger.WithFields(fields).Info("Training finished")
}

// LogEvaluation logs the accuracy of a model on a dataset
func (l *Logger) LogEvaluation(modelID, name string, accuracy float64, instances int, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["model"] = modelID
	fields["dataset"] = name
	fields["accuracy"] = accuracy
	fields["instances"] = instances

	l.logger.WithFields(fields).Info("Evaluation finished")
}

// LogModelSaved logs where a model was written
func (l *Logger) LogModelSaved(modelID, location string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["model"] = modelID
	fields["location"] = location

	l.logger.WithFields(fields).Info("Model saved")
}

// Close drains the async queue, closes the log file and removes old log files
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.quit)
		<-l.done

		if l.fileHandle != nil {
			l.logger.SetOutput(io.Discard)
			if cerr := l.fileHandle.Close(); cerr != nil {
				err = fmt.Errorf("failed to close log file: %w", cerr)
				return
			}
		}

		if cerr := l.cleanup(); cerr != nil {
			err = fmt.Errorf("failed to cleanup log files: %w", cerr)
		}
	})
	return err
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// Debug logs a debug message (async)
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.DebugLevel, msg, fields)
}

// Info logs an info message (async)
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.InfoLevel, msg, fields)
}

// Warning logs a warning message (async)
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.WarnLevel, msg, fields)
}

// Error logs an error message (async)
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.ErrorLevel, msg, fields)
}

// enqueue hands an entry to the queue goroutine, or logs it directly once the
// logger is closing
func (l *Logger) enqueue(level logrus.Level, msg string, fields map[string]interface{}) {
	select {
	case <-l.quit:
		l.logger.WithFields(fields).Log(level, msg)
		return
	default:
	}
	select {
	case <-l.quit:
		l.logger.WithFields(fields).Log(level, msg)
	case l.logQueue <- logEntry{level: level, msg: msg, fields: fields}:
	}
}
