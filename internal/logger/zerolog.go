package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerolog(writer io.Writer, level LogLevel) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level.zerolog()).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger writes human-readable lines to stderr.
func NewConsoleLogger(level LogLevel) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return NewZerolog(consoleWriter, level)
}

// New picks the console or JSON encoder. Logs go to stderr so that stdout
// stays free for command output.
func New(level LogLevel, human bool) *ZerologAdapter {
	if human {
		return NewConsoleLogger(level)
	}
	return NewZerolog(os.Stderr, level)
}

// Nop discards everything.
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	event := z.logger.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	event := z.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	event := z.logger.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	event := z.logger.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

var _ Logger = (*ZerologAdapter)(nil)
