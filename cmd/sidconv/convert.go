package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sid2sf2/internal/cliutil"
	"sid2sf2/internal/convertio"
	"sid2sf2/internal/driverwrap"
	"sid2sf2/internal/laxity"
	"sid2sf2/internal/psid"
)

func runConvert(args []string, verify bool) error {
	if len(args) == 0 {
		return fmt.Errorf("convert: expected a .sid file")
	}
	in := args[0]
	out := in[:len(in)-len(filepath.Ext(in))] + ".sf2"
	if len(args) > 1 {
		out = args[1]
	}

	image, warnings, err := convertFile(in)
	if err != nil {
		return fmt.Errorf("convert %s: %w", in, err)
	}

	report := ConversionReport{Input: in, Output: out}
	for _, w := range warnings.Items() {
		logger.Warn(w.String())
		report.Warnings = append(report.Warnings, w.String())
	}

	if err := os.WriteFile(out, image, 0o644); err != nil {
		return fmt.Errorf("convert %s: writing %s: %w", in, out, err)
	}
	logger.Info("wrote SF2 image", "input", in, "output", out, "bytes", len(image))

	if verify {
		original, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("convert %s: re-reading for verify: %w", in, err)
		}
		compared, agreed, err := verifyRoundtrip(original, image)
		if err != nil {
			return fmt.Errorf("convert %s: %w", in, err)
		}
		report.Verified = true
		report.FramesCompared = compared
		report.FramesAgreed = agreed
		if compared > 0 {
			report.AgreementPercent = 100 * float64(agreed) / float64(compared)
		}
		logger.Info("verified roundtrip", "frames_compared", compared, "frames_agreed", agreed)
	}

	fmt.Println(report.String())
	return nil
}

// convertFile loads a PSID/RSID tune, statically extracts its Laxity music
// model, and wraps that model plus the relocated player code into a fresh
// SF2 image. It assumes the player is loaded at the tune's own load
// address, which holds for the common single-file NewPlayer v21 case;
// multi-file or pre-relocated tunes need their player base supplied
// separately, which this CLI does not yet expose.
func convertFile(path string) ([]byte, *convertio.Warnings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	file, err := psid.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	mem := cliutil.LoadImage(file)
	base := file.LoadAddr

	var warnings convertio.Warnings
	model, err := laxity.Extract(mem, base, &warnings)
	if err != nil {
		return nil, &warnings, err
	}

	// The player's executable routines run from its load address up to
	// where the orderlist table begins; everything at or after that
	// offset is data, already accounted for in model.
	codeEnd := int(base) + laxity.OffsetOrderlists
	code := mem[base:codeEnd]

	entry := driverwrap.EntryPoints{
		Init: file.Header.InitAddr,
		Play: file.Header.PlayAddr,
		Stop: file.Header.InitAddr, // PSID carries no separate stop entry; init is always a safe re-entrant target
	}

	result, err := driverwrap.Wrap(model, code, base, entry, nil, &warnings)
	if err != nil {
		return nil, &warnings, err
	}
	return result.Image, &warnings, nil
}
