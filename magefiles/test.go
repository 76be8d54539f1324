//go:build mage

package main

import (
	"github.com/magefile/mage/sh"
)

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Cover runs all tests with coverage and writes coverage.out.
func Cover() error {
	return sh.RunV(binGo, "test", "-coverprofile=coverage.out", "./...")
}
