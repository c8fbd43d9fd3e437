/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for logger configuration, file output, queue draining and formatting.
*/

package logging_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/frbdt/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string, console *bytes.Buffer) *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    logging.LogFormatTraining,
		OutputDir: dir,
		MaxFiles:  3,
		Console:   console,
	}
}

func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, logging.DefaultConfig().Validate())

	bad := logging.DefaultConfig()
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = logging.DefaultConfig()
	bad.Level = "loud"
	assert.Error(t, bad.Validate())

	bad = logging.DefaultConfig()
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate())

	bad.OutputDir = ""
	assert.NoError(t, bad.Validate(), "max_files only matters with file output")
}

func TestLoggerWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := logging.NewLogger(testConfig(dir, &console))
	require.NoError(t, err)
	require.NotEmpty(t, logger.FilePath())

	logger.LogTraining("0123456789abcdef", 2, 5, 1.5, time.Second, nil)
	logger.LogEvaluation("0123456789abcdef", "iris-test", 0.9, 30, map[string]interface{}{"errors": 3})
	logger.Info("queued message", map[string]interface{}{"k": "v"})
	require.NoError(t, logger.Close())

	out := console.String()
	assert.Contains(t, out, "[TRAIN] Training finished")
	assert.Contains(t, out, "average_rule_size=1.5000")
	assert.Contains(t, out, "model=01234567 ")
	assert.Contains(t, out, "[EVAL] Evaluation finished")
	assert.Contains(t, out, "accuracy=90.00%")
	assert.Contains(t, out, "queued message k=v", "queue is drained on close")

	file, err := os.ReadFile(logger.FilePath())
	require.NoError(t, err)
	assert.Equal(t, out, string(file))
}

func TestLoggerCloseIsIdempotentAndLogsAfterClose(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.NewLogger(testConfig("", &console))
	require.NoError(t, err)
	assert.Empty(t, logger.FilePath())

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Warning("late", nil)
	assert.Contains(t, console.String(), "late")
}

func TestLoggerRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("frbdt_2020-01-0%d_00-00-00.000000.log", i+1))
		require.NoError(t, os.WriteFile(name, []byte("old\n"), 0644))
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatJSON,
		OutputDir: dir,
		MaxFiles:  3,
		Quiet:     true,
	})
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "frbdt_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, logger.FilePath(), "the current run is kept")
}

func TestTrainingFormatterTags(t *testing.T) {
	formatter := &logging.TrainingFormatter{}
	cases := map[string]string{
		"Layer built":       "[LAYER] ",
		"Rule grown":        "[RULE] ",
		"Training started":  "[TRAIN] ",
		"Evaluation failed": "[EVAL] ",
		"Model saved":       "[MODEL] ",
		"Dataset loaded":    "[DATA] ",
	}
	for message, tag := range cases {
		entry := &logrus.Entry{Logger: logrus.New(), Level: logrus.InfoLevel, Message: message, Data: logrus.Fields{}}
		out, err := formatter.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "INFO "+tag+message+"\n", string(out))
	}

	entry := &logrus.Entry{Logger: logrus.New(), Level: logrus.WarnLevel, Message: "something else",
		Data: logrus.Fields{"b": 2, "a": "x", "confidence": 0.5}}
	out, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "WARNING something else a=x b=2 confidence=0.5000\n", string(out))
}
