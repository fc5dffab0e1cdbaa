// Package prompt asks the user whether to continue, skip or quit.
//
// Prompts never exit the process. A Quit answer is returned as a Decision
// and travels up to the run loop, which stops after the current file has
// cleaned up after itself.
package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/danmuck/splitfile/src/console"
	logs "github.com/danmuck/smplog"
	"github.com/mattn/go-isatty"
)

type Decision int

const (
	Continue Decision = iota
	Skip
	Quit
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Prompter shows a message and collects a decision about it.
type Prompter interface {
	// ContinueOrQuit offers [c]ontinue, [s]kip current, [q]uit program.
	ContinueOrQuit(msg console.Message) Decision
	// QuitOrNo offers [n]o, [q]uit program. "n" yields Continue.
	QuitOrNo(msg console.Message) Decision
}

// Terminal reads answers line by line. End of input counts as Quit so that
// a closed stdin never lets a destructive step run unattended.
type Terminal struct {
	reader *bufio.Reader
	out    console.Console
}

// NewTerminal reads answers from input and shows questions through out.
func NewTerminal(input io.Reader, out console.Console) *Terminal {
	reader, ok := input.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(input)
	}
	return &Terminal{reader: reader, out: out}
}

func (t *Terminal) ContinueOrQuit(msg console.Message) Decision {
	t.out.Render(msg)
	for {
		logs.Promptf("Continue? ([c]ontinue, [s]kip current, [q]uit program) [c/s/q]: ")
		switch t.readChoice() {
		case "c":
			return Continue
		case "s":
			return Skip
		case "q", "":
			return Quit
		default:
			printHints(true)
		}
	}
}

func (t *Terminal) QuitOrNo(msg console.Message) Decision {
	t.out.Render(msg)
	for {
		logs.Promptf("Quit program? ([n]o, [q]uit program) [q/n]: ")
		switch t.readChoice() {
		case "n":
			return Continue
		case "q", "":
			return Quit
		default:
			printHints(false)
		}
	}
}

// readChoice returns the trimmed, lower-cased answer, or "" on EOF or a
// read error. An empty line is returned as "?" so it re-asks.
func (t *Terminal) readChoice() string {
	line, err := t.reader.ReadString('\n')
	choice := strings.ToLower(strings.TrimSpace(line))
	if err != nil && choice == "" {
		logs.Printf("\n")
		return ""
	}
	if choice == "" {
		return "?"
	}
	return choice
}

func printHints(withSkip bool) {
	logs.Printf("\n")
	if withSkip {
		logs.KeyHint("c", "continue with the current file")
		logs.Printf("\n")
		logs.KeyHint("s", "skip the current file")
		logs.Printf("\n")
	} else {
		logs.KeyHint("n", "no, keep going with the next file")
		logs.Printf("\n")
	}
	logs.KeyHint("q", "quit the program")
	logs.Printf("\n")
}

// Auto answers Continue to everything after showing the message.
type Auto struct {
	Out console.Console
}

func (a Auto) ContinueOrQuit(msg console.Message) Decision {
	a.Out.Render(msg)
	return Continue
}

func (a Auto) QuitOrNo(msg console.Message) Decision {
	a.Out.Render(msg)
	return Continue
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
