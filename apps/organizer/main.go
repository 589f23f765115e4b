package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/services/logger"
)

func main() {
	std := log.New(os.Stderr, "ORGANIZER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(std, conf)

	// start CLI
	cli := commandLine{
		conf:   conf,
		logger: logger,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	if err := cli.run(os.Args); err != nil {
		switch {
		case err == errHelp:
		case core.IsArgumentError(err):
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		case core.IsValidationError(err):
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
			for _, fe := range errors.Cause(err).(*core.ValidationError).Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Error)
			}
		default:
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
