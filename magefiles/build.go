//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the cad2urdf binary into bin/.
func (Build) CLI() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/cad2urdf", "./cmd/cad2urdf"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet and the test suite.
func (Build) Check() error {
	mg.Deps(Tidy)
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy.
func Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"))
	return err
}
