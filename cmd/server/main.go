// Package main is the entry point for the rtttl2midi API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/rtttl2midi/pkg/api"
)

func main() {
	cfg := api.DefaultConfig()
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "Gin mode (debug, release, test)")
	flag.Parse()

	fmt.Printf("Starting rtttl2midi API server on port %d...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Port)

	if err := api.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
