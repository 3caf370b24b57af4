// Command sidconv converts between PSID/RSID SID dumps and SID Factory II
// modules, wrapping a Laxity NewPlayer v21 tune's extracted music data and
// relocated player code into a packed SF2 image, and reversing the process.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"sid2sf2/internal/cliutil"
)

var logger *slog.Logger

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optVerbose := getopt.BoolLong("verbose", 'v', "Log everything to stderr, not just warnings")
	optVerify := getopt.BoolLong("verify", 0, "After convert, roundtrip the output and compare played frames against the original")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("convert|pack|dump|batch [options] <files...>")
	getopt.Parse()

	args := getopt.Args()
	if *optHelp || len(args) == 0 {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sidconv: cannot create log file: %v\n", err)
			os.Exit(1)
		}
		logFile = f
		defer f.Close()
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger = slog.New(cliutil.NewHandler(logFile, &slog.HandlerOptions{Level: level}, *optVerbose))
	slog.SetDefault(logger)

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "convert":
		err = runConvert(rest, *optVerify)
	case "pack":
		err = runPack(rest)
	case "dump":
		err = runDump(rest)
	case "batch":
		err = runBatch(rest)
	default:
		fmt.Fprintf(os.Stderr, "sidconv: unknown subcommand %q\n", cmd)
		getopt.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error(err.Error(), "subcommand", cmd)
		os.Exit(1)
	}
}
