package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
}

func (suite *LoggerTestSuite) TestNewLoggerWithLevel() {
	logger, err := NewLoggerWithLevel("debug")
	suite.NoError(err)
	suite.NotNil(logger)

	_, err = NewLoggerWithLevel("loud")
	suite.Error(err)
}

func (suite *LoggerTestSuite) TestNewLoggerWithOutput() {
	path := filepath.Join(suite.T().TempDir(), "signal.log")

	logger, err := NewLoggerWithOutput("warn", path)
	suite.Require().NoError(err)

	logger.Info("dropped below level")
	logger.Warn("strategy switched")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "strategy switched")
	suite.NotContains(string(data), "dropped below level")
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}

	// Sync should not panic and should return nil for a nil inner logger
	err := logger.Sync()
	suite.NoError(err)
}

func (suite *LoggerTestSuite) TestNamed() {
	logger := NewNopLogger()
	suite.NotNil(logger.Named("dispatcher").Logger)

	var missing *Logger
	suite.NotNil(missing.Named("dispatcher").Logger)
}

func (suite *LoggerTestSuite) TestLoggerLogging() {
	logger := NewNopLogger()

	// These should not panic
	logger.Info("test info message")
	logger.Debug("test debug message")
	logger.Warn("test warn message")
	logger.Error("test error message")
}
