package sharedlog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newConsoleFormat renders records for a terminal, colouring the level token unless noColor.
func newConsoleFormat(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return newFormat(out, noColor)
}

// newFileFormat renders records as plain text lines.
func newFileFormat(out io.Writer) zerolog.ConsoleWriter {
	return newFormat(out, true)
}

// newFormat builds the line layout shared by both pipelines:
//
//	<timestamp> <level>: <message>[ | <error.message>][ key=value...]
//	<stack>
func newFormat(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: noColor,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude:   []string{FieldError, FieldStack},
		FormatTimestamp: formatTimestamp,
		FormatLevel:     levelFormatter(noColor),
		FormatMessage:   formatMessage,
		FormatPrepare:   prepareErrorSuffix,
		FormatExtra:     appendStack,
	}
}

// timestampHook stamps each record with local wall-clock time at second precision.
func timestampHook(clock func() time.Time) zerolog.Hook {
	return zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		e.Str(zerolog.TimestampFieldName, clock().Local().Format(timestampLayout))
	})
}

func formatTimestamp(i interface{}) string {
	s, _ := i.(string)
	return s
}

func formatMessage(i interface{}) string {
	if i == nil {
		return emptyString
	}
	return fmt.Sprint(i)
}

func levelFormatter(noColor bool) zerolog.Formatter {
	return func(i interface{}) string {
		name, _ := i.(string)
		lvl, ok := levelFromName(name)
		if !ok {
			return name + ":"
		}
		return colorize(lvl.String()+":", lvl.Color(), noColor)
	}
}

// errorParts extracts the message suffix and the stack block of a decoded record.
// The record's own stack wins over the nested error's.
func errorParts(evt map[string]interface{}) (suffix, stack string) {
	switch e := evt[FieldError].(type) {
	case map[string]interface{}:
		if msg, ok := e[FieldMessage].(string); ok && msg != emptyString {
			suffix = " | " + msg
		}
		stack, _ = e[FieldStack].(string)
	case string:
		if e != emptyString {
			suffix = " | " + e
		}
	}
	if own, ok := evt[FieldStack].(string); ok && own != emptyString {
		stack = own
	}
	return suffix, stack
}

func prepareErrorSuffix(evt map[string]interface{}) error {
	suffix, _ := errorParts(evt)
	if suffix == emptyString {
		return nil
	}
	msg, _ := evt[zerolog.MessageFieldName].(string)
	evt[zerolog.MessageFieldName] = msg + suffix
	return nil
}

func appendStack(evt map[string]interface{}, buf *bytes.Buffer) error {
	_, stack := errorParts(evt)
	if stack == emptyString {
		return nil
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.TrimRight(stack, "\n"))
	return nil
}
