// Command remixin applies mixins from a YAML definition file to a YAML
// target and prints the resulting object.
//
// Usage:
//
//	remixin -defs mixins.yaml -mixin button [-target view.yaml] [-options opts.yaml] [-validate] [-dump] [-metrics]
//	remixin -defs mixins.yaml -check
//
// Settings not covered by flags come from REMIXIN_* environment variables.
package main

import (
	"context"
	"flag"
	"os"

	"remixin/internal/cli"
	"remixin/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	flags, err := cli.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := cli.Run(context.Background(), cfg, flags, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
