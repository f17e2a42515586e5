package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const ansiReset = "\033[0m"

// Short level tags and their ANSI colors.
var levelStyles = map[string]struct{ tag, color string }{
	"debug": {"[DBG]", "\033[36m"},
	"info":  {"[INF]", "\033[32m"},
	"warn":  {"[WRN]", "\033[33m"},
	"error": {"[ERR]", "\033[31m"},
	"fatal": {"[FTL]", "\033[35m"},
}

// consoleWriter renders lines as "15:04:05 [EXT][INF] message key:value",
// where EXT is the first three letters of the service name.
func consoleWriter(out io.Writer, noColor bool, serviceName string) zerolog.ConsoleWriter {
	prefix := ""
	if len(serviceName) >= 3 && serviceName != "default" {
		prefix = paint("["+strings.ToUpper(serviceName[:3])+"]", "\033[34m", noColor)
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			level := strings.ToLower(fmt.Sprint(i))
			style, ok := levelStyles[level]
			if !ok {
				return prefix + "[" + strings.ToUpper(level) + "]"
			}
			return prefix + paint(style.tag, style.color, noColor)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprint(i) + ":"
		},
	}
}

func paint(s, color string, noColor bool) string {
	if noColor {
		return s
	}
	return color + s + ansiReset
}
