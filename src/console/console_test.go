package console

import (
	"errors"
	"testing"
)

func TestMessageString(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"warning", Warning("%q has no splits", "a.bin"), `warning | "a.bin" has no splits`},
		{"success", Success("joined %d splits", 3), "success | joined 3 splits"},
		{"error with cause", Error(errors.New("boom"), "cat failed"), "error | cat failed: boom"},
		{"debug", Debug("splits: %s", "a.0"), "debug | splits: a.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConsoleEnabled(t *testing.T) {
	quiet := Console{}
	verbose := Console{Verbosity: 2}
	for _, l := range []Level{LevelError, LevelWarning, LevelSuccess, LevelInfo} {
		if !quiet.Enabled(l) {
			t.Fatalf("%s hidden at verbosity 0", l)
		}
	}
	if quiet.Enabled(LevelDebug) {
		t.Fatal("debug shown at verbosity 0")
	}
	if !verbose.Enabled(LevelDebug) {
		t.Fatal("debug hidden at verbosity 2")
	}
}

func TestRenderDoesNotPanic(t *testing.T) {
	for _, m := range []Message{
		Error(nil, "no cause"),
		Error(errors.New("cause"), "with cause"),
		Warning("warn"),
		Success("ok"),
		Info("info"),
		Debug("debug"),
	} {
		Console{}.Render(m)
		Console{Verbosity: 1}.Render(m)
	}
}
