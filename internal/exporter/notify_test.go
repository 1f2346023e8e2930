package exporter

import (
	"bytes"
	"testing"
)

func TestConsoleNotifier(t *testing.T) {
	var out, errOut bytes.Buffer
	n := &ConsoleNotifier{Out: &out, Err: &errOut}

	n.Success("/tmp/Robot/model.urdf")
	n.Failure("boom")

	if got := out.String(); got != "Exported to /tmp/Robot/model.urdf\n" {
		t.Errorf("success output: got %q", got)
	}
	if got := errOut.String(); got != "Failed:\nboom\n" {
		t.Errorf("failure output: got %q", got)
	}
}

func TestNewNotifier(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{"", "console", false},
		{"console", "console", false},
		{"dialog", "dialog", false},
		{"log", "log", false},
		{"smoke-signal", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			n, err := NewNotifier(tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNotifier(%q) failed: %v", tt.kind, err)
			}

			var got string
			switch n.(type) {
			case *ConsoleNotifier:
				got = "console"
			case DialogNotifier:
				got = "dialog"
			case LogNotifier:
				got = "log"
			}
			if got != tt.want {
				t.Errorf("NewNotifier(%q): got %T", tt.kind, n)
			}
		})
	}
}

func TestLogNotifierDoesNotPanic(t *testing.T) {
	var n Notifier = LogNotifier{}
	n.Success("/tmp/out.urdf")
	n.Failure("trace")
}
