package main

import (
	"flag"
	"os"

	"github.com/louisbranch/theater.planner/internal/platform/config"
	"github.com/louisbranch/theater.planner/internal/tools/adminhash"
)

func main() {
	cfg, err := adminhash.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := adminhash.Run(cfg, os.Stdin, os.Stdout, nil); err != nil {
		config.Exitf("generate admin hash: %v", err)
	}
}
