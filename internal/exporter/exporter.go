// Package exporter runs one complete assembly export: flatten, export meshes,
// write the description and report the outcome.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cad2urdf/internal/config"
	"github.com/Faultbox/cad2urdf/internal/dedup"
	"github.com/Faultbox/cad2urdf/internal/flatten"
	"github.com/Faultbox/cad2urdf/internal/logger"
	"github.com/Faultbox/cad2urdf/internal/urdf"
	"github.com/Faultbox/cad2urdf/pkg/assembly"
)

// MeshDirName is the meshes directory inside the assembly output directory.
const MeshDirName = "meshes"

// Options for a run. A zero Destination resolves to the user's download
// directory when the run starts.
type Options struct {
	Destination string
	URDF        urdf.Options
}

// OptionsFromConfig maps the export section of the config.
func OptionsFromConfig(cfg config.ExportConfig) Options {
	return Options{
		Destination: cfg.Destination,
		URDF: urdf.Options{
			LengthRatio: cfg.LengthRatio,
			MeshScale:   cfg.MeshScale,
		},
	}
}

// Report describes a finished run.
type Report struct {
	RunID        string
	Output       string // description file
	MeshDir      string
	Nodes        int
	Links        int
	Meshes       int
	FailedGroups []string // revision ids without a mesh
}

// Run exports asm and notifies n exactly once with the outcome.
// Any error is returned with a stack trace attached; host panics are
// recovered into errors.
func Run(asm assembly.Assembly, opts Options, n Notifier) (report *Report, err error) {
	runID := uuid.NewString()
	log := logger.WithRun(runID)

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("export panicked: %v", r)
		}
		if err != nil {
			trace := fmt.Sprintf("%+v", err)
			log.Error("export failed", zap.String("trace", trace))
			report = nil
			n.Failure(trace)
			return
		}
		log.Info("export finished",
			zap.String("output", report.Output),
			zap.Int("links", report.Links),
			zap.Int("meshes", report.Meshes))
		n.Success(report.Output)
	}()

	report, err = run(asm, opts, runID, log)
	return report, err
}

func run(asm assembly.Assembly, opts Options, runID string, log *zap.Logger) (*Report, error) {
	dest := opts.Destination
	if dest == "" {
		dest = config.DownloadDir()
	}
	if opts.URDF != opts.URDF.WithDefaults() {
		log.Debug("unit options defaulted", zap.Any("given", opts.URDF))
		opts.URDF = opts.URDF.WithDefaults()
	}
	name := asm.Name()
	outDir := filepath.Join(dest, name)
	meshDir := filepath.Join(outDir, MeshDirName)
	log.Info("export started", zap.String("assembly", name), zap.String("dir", outDir))

	table, err := flatten.Flatten(asm.Root())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := os.MkdirAll(meshDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating mesh directory")
	}

	refs := dedup.Collect(table)
	groups := dedup.Partition(refs)
	log.Info("geometry grouped", zap.Int("bodies", len(refs)), zap.Int("groups", groups.Len()))

	res := dedup.Export(groups, meshDir, asm.DoEvents)

	doc, err := urdf.Build(name, table, refs, groups, outDir, opts.URDF)
	if err != nil {
		return nil, errors.Wrap(err, "building description")
	}

	output := filepath.Join(outDir, urdf.FileName)
	if err := urdf.WriteFile(output, doc); err != nil {
		return nil, errors.Wrap(err, "writing description")
	}

	report := &Report{
		RunID:   runID,
		Output:  output,
		MeshDir: meshDir,
		Nodes:   table.Len(),
		Links:   len(refs),
		Meshes:  res.Exported,
	}
	for _, g := range res.Failed {
		report.FailedGroups = append(report.FailedGroups, g.RevisionID)
	}
	return report, nil
}
