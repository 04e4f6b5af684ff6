package config

import (
	"github.com/MonkyMars/gecho"
)

var logger *gecho.Logger = gecho.NewDefaultLogger()

func InitializeLogger() *gecho.Logger {
	logger = NewLogger(!IsProduction())
	return logger
}

func GetLogger() *gecho.Logger {
	return logger
}

// NewLogger builds a logger at the configured level.
func NewLogger(showCaller bool) *gecho.Logger {
	logLevel := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(logLevel)))
}
