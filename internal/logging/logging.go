package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Setup 初始化全局日志级别并返回根 logger
//   - level: trace, debug, info, warn, error
//   - format: "pretty" 控制台可读输出；"auto" 仅在终端上使用可读输出；其他值输出 JSON
func Setup(level, format string) zerolog.Logger {
	return New(os.Stdout, level, format)
}

// New 基于指定输出创建 logger
func New(out io.Writer, level, format string) zerolog.Logger {
	writer := out
	if usePretty(out, format) {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func usePretty(out io.Writer, format string) bool {
	switch format {
	case "pretty":
		return true
	case "auto":
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Component 派生带 component 字段的子 logger
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
