// Package report tallies per-file outcomes over one run and maps the run
// to a process exit status.
package report

import (
	"fmt"
	"sort"

	logs "github.com/danmuck/smplog"
)

const (
	ExitOK      = 0
	ExitNoPaths = 1
	ExitQuit    = 2
)

type Summary struct {
	Counts     map[string]int
	Unresolved int  // arguments that named nothing
	Quit       bool // the user chose to quit
}

func NewSummary() *Summary {
	return &Summary{Counts: make(map[string]int)}
}

func (s *Summary) Add(outcome string) {
	if s.Counts == nil {
		s.Counts = make(map[string]int)
	}
	s.Counts[outcome]++
}

func (s *Summary) Count(outcome string) int {
	return s.Counts[outcome]
}

func (s *Summary) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

func (s *Summary) ExitCode() int {
	if s.Quit {
		return ExitQuit
	}
	return ExitOK
}

// Render prints one field per outcome, sorted by name.
func (s *Summary) Render(title string) {
	outcomes := make([]string, 0, len(s.Counts))
	for outcome := range s.Counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	logs.Printf("\n")
	logs.Titlef("--[ %s summary ]--\n", title)
	for _, outcome := range outcomes {
		logs.Field(outcome, s.Counts[outcome])
		logs.Printf("\n")
	}
	if s.Unresolved > 0 {
		logs.Field("unresolved arguments", s.Unresolved)
		logs.Printf("\n")
	}
	if s.Quit {
		logs.Field("stopped", fmt.Sprintf("quit after %d file(s)", s.Total()))
		logs.Printf("\n")
	}
}
