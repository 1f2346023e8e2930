//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Exports the manifest given by MANIFEST (default testdata/rover.yaml).
func (Run) Export() error {
	mg.Deps(Build.CLI)
	manifest := envOr("MANIFEST", "testdata/rover.yaml")
	fmt.Println("Exporting", manifest)
	if _, err := executeCmd("bin/cad2urdf", withArgs("export", "-dest", "out", manifest), withStream()); err != nil {
		return err
	}
	return nil
}

// Re-exports the manifest on every change.
func (Run) Watch() error {
	mg.Deps(Build.CLI)
	manifest := envOr("MANIFEST", "testdata/rover.yaml")
	_, err := executeCmd("bin/cad2urdf", withArgs("watch", "-dest", "out", manifest), withStream())
	return err
}
