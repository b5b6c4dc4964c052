// Command csgbuild evaluates a modeling script and writes its parts to an
// STL file.
package main

import (
	"github.com/tdewolff/argp"
)

func main() {
	root := argp.NewCmd(&Build{}, "Build STL meshes from modeling scripts")
	root.AddCmd(&Check{}, "check", "Evaluate and validate a script without meshing it")
	root.Parse()
	root.PrintHelp()
}
