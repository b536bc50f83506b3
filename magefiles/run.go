//go:build mage

package main

import (
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve builds the binary and starts the websocket server on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}

// Search builds the binary and prints every card of a title search,
// for example: mage search "num=3 cowboy bebop".
func Search(terms string) error {
	mg.Deps(Build)
	args := append([]string{"search", "--all"}, strings.Fields(terms)...)
	return sh.RunV(binPath(), args...)
}

func binPath() string {
	return "./" + binDir + "/" + binName
}
