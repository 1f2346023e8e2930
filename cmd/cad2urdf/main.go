// cad2urdf flattens an assembly manifest into a URDF robot description.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/config"
	"github.com/Faultbox/cad2urdf/internal/dedup"
	"github.com/Faultbox/cad2urdf/internal/exporter"
	"github.com/Faultbox/cad2urdf/internal/filehost"
	"github.com/Faultbox/cad2urdf/internal/flatten"
	"github.com/Faultbox/cad2urdf/internal/logger"
	"github.com/Faultbox/cad2urdf/internal/urdf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "tree":
		cmdTree(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cad2urdf - assembly to URDF exporter

Usage:
  cad2urdf <command> [options] <manifest>

Commands:
  export <manifest>   Export meshes and model.urdf
  tree <manifest>     Print the flattened occurrence tree
  watch <manifest>    Export again whenever the manifest changes

Options:
  -config <file>      Config file (.yaml or .toml)
  -dest <dir>         Destination root (default: download folder)
  -notify <kind>      console, dialog or log
  -log-file <file>    Also write logs to this file
  -debug              Enable debug logging

Examples:
  cad2urdf export testdata/rover.yaml
  cad2urdf export -dest ./out -notify dialog rover.toml
  cad2urdf tree testdata/rover.yaml`)
}

// setup parses the shared flags, loads config and starts the logger.
// It returns the positional arguments.
func setup(name string, args []string) (*config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cad2urdf %s [options] <manifest>\n", name)
		os.Exit(1)
	}
	return cfg, fs.Args()
}

func cmdExport(args []string) {
	cfg, rest := setup("export", args)
	defer logger.Sync()

	if _, err := exportOnce(cfg, rest[0]); err != nil {
		os.Exit(1)
	}
}

// exportOnce runs one export of manifest. The notifier hears about manifest
// errors too, so every invocation ends with exactly one notification.
func exportOnce(cfg *config.Config, manifest string) (*exporter.Report, error) {
	n, err := exporter.NewNotifier(cfg.Notify.Kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, err
	}

	host, err := filehost.Open(manifest)
	if err != nil {
		err = errors.Wrapf(err, "opening %s", manifest)
		logger.Error("manifest rejected", zap.Error(err))
		n.Failure(fmt.Sprintf("%+v", err))
		return nil, err
	}

	report, err := exporter.Run(host, exporter.OptionsFromConfig(cfg.Export), n)
	if err != nil {
		return nil, err
	}
	for _, rev := range report.FailedGroups {
		logger.Warn("geometry without mesh", zap.String("revision", rev))
	}
	return report, nil
}

func cmdTree(args []string) {
	cfg, rest := setup("tree", args)
	defer logger.Sync()

	host, err := filehost.Open(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	table, err := flatten.Flatten(host.Root())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ratio := urdf.Options{LengthRatio: cfg.Export.LengthRatio}.WithDefaults().LengthRatio
	printTree(os.Stdout, table, ratio)
}

func printTree(w io.Writer, table *flatten.Table, ratio float64) {
	refs := dedup.Collect(table)
	groups := dedup.Partition(refs)
	revisions := make(map[string]string, len(refs))
	for _, r := range refs {
		revisions[r.Path] = r.Body.RevisionID()
	}

	fmt.Fprintf(w, "Assembly: %s\n", table.Root().Name)
	fmt.Fprintf(w, "Nodes:    %d\n", table.Len())
	fmt.Fprintf(w, "Links:    %d\n", len(refs))
	fmt.Fprintf(w, "Meshes:   %d\n", groups.Len())
	fmt.Fprintln(w)

	for _, n := range table.Nodes() {
		depth := strings.Count(n.Path, flatten.Separator)
		line := strings.Repeat("  ", depth) + n.Name
		if !n.Pose.Known {
			line += "  (pose unknown)"
		} else {
			line += fmt.Sprintf("  xyz=[%s] rpy=[%s]",
				urdf.FormatXYZ(n.Pose.Translation, ratio),
				urdf.FormatRPY(n.Pose.RPY()))
		}
		if rev, ok := revisions[n.Path]; ok {
			line += "  <" + rev + ">"
		}
		fmt.Fprintln(w, line)
	}
}
