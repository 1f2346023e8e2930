package exporter

import (
	"fmt"
	"io"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/logger"
)

// Notifier shows the final outcome of a run to the user.
type Notifier interface {
	Success(output string)
	Failure(trace string)
}

// SuccessMessage is the confirmation shown for a finished export.
func SuccessMessage(output string) string {
	return "Exported to " + output
}

// FailureMessage is the error text shown for a failed export.
func FailureMessage(trace string) string {
	return "Failed:\n" + trace
}

// ConsoleNotifier prints outcomes to the terminal.
type ConsoleNotifier struct {
	Out io.Writer
	Err io.Writer
}

// NewConsoleNotifier writes to stdout and stderr.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stdout, Err: os.Stderr}
}

func (c *ConsoleNotifier) Success(output string) {
	fmt.Fprintln(c.Out, SuccessMessage(output))
}

func (c *ConsoleNotifier) Failure(trace string) {
	fmt.Fprintln(c.Err, FailureMessage(trace))
}

// DialogNotifier shows native message boxes.
type DialogNotifier struct {
	Title string
}

func (d DialogNotifier) Success(output string) {
	dialog.Message("%s", SuccessMessage(output)).Title(d.Title).Info()
}

func (d DialogNotifier) Failure(trace string) {
	dialog.Message("%s", FailureMessage(trace)).Title(d.Title).Error()
}

// LogNotifier only records outcomes in the log.
type LogNotifier struct{}

func (LogNotifier) Success(output string) {
	logger.Info(SuccessMessage(output))
}

func (LogNotifier) Failure(trace string) {
	logger.Error("export failed", zap.String("trace", trace))
}

// NewNotifier picks a notifier by name: "dialog", "log" or "console".
func NewNotifier(kind string) (Notifier, error) {
	switch kind {
	case "", "console":
		return NewConsoleNotifier(), nil
	case "dialog":
		return DialogNotifier{Title: "cad2urdf"}, nil
	case "log":
		return LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}
