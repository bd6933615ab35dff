//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles every executable into ./bin
func Build() error {
	mg.Deps(BuildRasterizer)
	mg.Deps(BuildGeodump)
	mg.Deps(BuildEvdisplay)
	fmt.Println("Compilation finished")
	return nil
}

func BuildRasterizer() error {
	return buildExecutable("rasterizer")
}

func BuildGeodump() error {
	return buildExecutable("geodump")
}

func BuildEvdisplay() error {
	return buildExecutable("evdisplay")
}

// Test runs the unit tests. pkg/h5 needs the HDF5 C library through cgo.
func Test() error {
	cmd := exec.Command("go", "test", "./pkg/...")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func buildExecutable(name string) error {
	fmt.Printf("Building %s executable...\n", name)
	cmd := exec.Command("go", "build", "-o", "./bin/"+name, "./"+name)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cgoEnv() []string {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
}
