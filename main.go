// Package main provides the entrypoint for the murmur relay app.
package main

import (
	"os"

	"github.com/murmur-app/murmur/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
