// Package console renders severity-tagged messages through smplog.
//
// Messages are values so that prompts can carry the text they ask about and
// tests can inspect what would have been shown.
package console

import (
	"errors"
	"fmt"

	logs "github.com/danmuck/smplog"
)

type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelSuccess
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Message is one line of user-facing output.
type Message struct {
	Level Level
	Text  string
	Err   error
}

func (m Message) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s | %s: %v", m.Level, m.Text, m.Err)
	}
	return fmt.Sprintf("%s | %s", m.Level, m.Text)
}

func Error(err error, format string, args ...any) Message {
	return Message{Level: LevelError, Text: fmt.Sprintf(format, args...), Err: err}
}

func Warning(format string, args ...any) Message {
	return Message{Level: LevelWarning, Text: fmt.Sprintf(format, args...)}
}

func Success(format string, args ...any) Message {
	return Message{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)}
}

func Info(format string, args ...any) Message {
	return Message{Level: LevelInfo, Text: fmt.Sprintf(format, args...)}
}

func Debug(format string, args ...any) Message {
	return Message{Level: LevelDebug, Text: fmt.Sprintf(format, args...)}
}

// Console renders messages for one run. Debug messages show only when
// Verbosity, the number of -v flags given, is at least 1.
type Console struct {
	Verbosity int
}

// Enabled reports whether messages at level l are shown.
func (c Console) Enabled(l Level) bool {
	return l != LevelDebug || c.Verbosity > 0
}

// Render writes m to the terminal.
func (c Console) Render(m Message) {
	if !c.Enabled(m.Level) {
		return
	}
	switch m.Level {
	case LevelError:
		err := m.Err
		if err == nil {
			err = errors.New(m.Text)
		}
		logs.Errorf(err, "%s", m.Text)
	case LevelWarning:
		logs.StatusWarn(m.Text)
		logs.Printf("\n")
	case LevelSuccess:
		logs.StatusInfo(m.Text)
		logs.Printf("\n")
	case LevelInfo:
		logs.Infof("%s", m.Text)
	case LevelDebug:
		logs.Debugf("%s", m.Text)
	default:
		logs.Println(m.Text)
	}
}
