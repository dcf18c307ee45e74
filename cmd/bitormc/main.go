//go:build !wasm

// Command bitormc generates bitorm.Model implementations for the structs
// declared in model.go / models.go files below a directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tinywasm/bitorm"
)

func main() {
	root := flag.String("root", ".", "directory to scan for model.go and models.go files")
	quiet := flag.Bool("q", false, "suppress warnings")
	flag.Parse()

	g := bitorm.NewGenerator()
	g.SetRootDir(*root)
	if !*quiet {
		g.SetLog(func(messages ...any) {
			fmt.Fprintln(os.Stderr, messages...)
		})
	}
	if err := g.Run(); err != nil {
		log.Fatalf("bitormc: %v", err)
	}
}
