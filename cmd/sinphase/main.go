// main is the entry point for the sinphase CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/obinexus/sinphase/cmd"
	"github.com/obinexus/sinphase/internal/iocache"
)

func main() {
	// Load a local .env if present so SINPHASE_TOKEN and database
	// connection strings stay out of shell history.
	_ = godotenv.Load()

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
