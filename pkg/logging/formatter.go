/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatters for FRBDT. CustomFormatter prints compact, optionally
colored lines; TrainingFormatter adds a tag for training and evaluation events and
renders their numeric fields in a readable way.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides compact structured output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, "", f.formatValue), nil
}

func (f *CustomFormatter) format(entry *logrus.Entry, tag string, value func(string, interface{}) string) []byte {
	var output strings.Builder

	if f.Timestamp {
		timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[36m%s\033[0m ", timestamp)) // Cyan
		} else {
			output.WriteString(fmt.Sprintf("%s ", timestamp))
		}
	}

	level := strings.ToUpper(entry.Level.String())
	if f.Colors {
		output.WriteString(fmt.Sprintf("\033[%dm%s\033[0m ", f.getLevelColor(entry.Level), level))
	} else {
		output.WriteString(fmt.Sprintf("%s ", level))
	}

	if tag != "" {
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[35m[%s]\033[0m ", tag)) // Magenta
		} else {
			output.WriteString(fmt.Sprintf("[%s] ", tag))
		}
	}

	if f.Caller && entry.HasCaller() {
		caller := fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[33m[%s]\033[0m ", caller)) // Yellow
		} else {
			output.WriteString(fmt.Sprintf("[%s] ", caller))
		}
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data, value))
	}

	output.WriteString("\n")
	return []byte(output.String())
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	case logrus.FatalLevel, logrus.PanicLevel:
		return 35 // Magenta
	default:
		return 37
	}
}

// formatFields renders fields sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields, value func(string, interface{}) string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		formatted := value(key, fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formatted)) // Blue key, Green value
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, formatted))
		}
	}

	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func (f *CustomFormatter) formatValue(_ string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case string:
		if len(v) > 120 {
			return fmt.Sprintf("%s...", v[:120])
		}
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TrainingFormatter tags training, rule, layer and evaluation events
type TrainingFormatter struct {
	CustomFormatter
}

// Format formats an entry with its event tag
func (f *TrainingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, f.getTag(entry.Message), f.formatTrainingValue), nil
}

// getTag returns a tag based on the log message
func (f *TrainingFormatter) getTag(message string) string {
	switch {
	case strings.HasPrefix(message, "Layer"):
		return "LAYER"
	case strings.HasPrefix(message, "Rule"):
		return "RULE"
	case strings.HasPrefix(message, "Training"):
		return "TRAIN"
	case strings.HasPrefix(message, "Evaluation"):
		return "EVAL"
	case strings.HasPrefix(message, "Model"):
		return "MODEL"
	case strings.HasPrefix(message, "Dataset"):
		return "DATA"
	default:
		return ""
	}
}

// formatTrainingValue formats training-specific field values
func (f *TrainingFormatter) formatTrainingValue(key string, value interface{}) string {
	switch key {
	case "accuracy":
		if v, ok := value.(float64); ok {
			return fmt.Sprintf("%.2f%%", v*100)
		}
	case "confidence", "average_rule_size", "weight":
		if v, ok := value.(float64); ok {
			return fmt.Sprintf("%.4f", v)
		}
	case "model":
		if s, ok := value.(string); ok && len(s) > 8 {
			return s[:8]
		}
	}
	return f.formatValue(key, value)
}
