package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevel()

// Init builds the global logger for the given environment. Anything other
// than "production" gets the human readable development encoder.
func Init(environment, logLevel string) error {
	if err := SetLevel(logLevel); err != nil {
		return err
	}

	var conf zap.Config
	if environment == "production" {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the global logger in place.
func SetLevel(logLevel string) error {
	if logLevel == "" {
		logLevel = "info"
	}

	parsed, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}
	level.SetLevel(parsed)

	return nil
}
