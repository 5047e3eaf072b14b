package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with the key "error" and the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns a slog.Attr rendering the value through its Stringer.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// KeyLoggerName is the attribute key used to tag a component logger.
const KeyLoggerName = "logger"

// LoggerName returns the component name attribute.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}
