package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sid2sf2/internal/driverwrap"
	"sid2sf2/internal/sf2"
)

func runPack(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("pack: expected an .sf2 file")
	}
	in := args[0]
	out := in[:len(in)-len(filepath.Ext(in))] + ".sid"
	if len(args) > 1 {
		out = args[1]
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	file, err := sf2.Parse(data)
	if err != nil {
		return fmt.Errorf("pack %s: %w", in, err)
	}

	psidBytes, err := driverwrap.Unpack(file, driverwrap.UnpackOptions{
		Title:  filepath.Base(in),
		Author: "sidconv",
	})
	if err != nil {
		return fmt.Errorf("pack %s: %w", in, err)
	}

	if err := os.WriteFile(out, psidBytes, 0o644); err != nil {
		return fmt.Errorf("pack %s: writing %s: %w", in, out, err)
	}
	logger.Info("wrote PSID file", "input", in, "output", out, "bytes", len(psidBytes))
	return nil
}
