package main

import (
	"fmt"

	"sid2sf2/internal/driverwrap"
	"sid2sf2/internal/sf2"
	"sid2sf2/internal/sidplayer"
)

// verifyFrames is how many play-routine calls the roundtrip check compares.
// Enough to exercise a handful of orderlist steps without costing much time
// on a CLI invocation.
const verifyFrames = 200

// ConversionReport is the CLI-level aggregate of one conversion's outcome:
// the warnings collected during extraction/pack, and — when requested — the
// frame-agreement percentage between the original tune and the PSID that
// driverwrap.Unpack can reconstruct from the wrapped SF2 image. It holds no
// behavior the core packages depend on; it exists purely to report.
type ConversionReport struct {
	Input            string
	Output           string
	Warnings         []string
	Verified         bool
	FramesCompared   int
	FramesAgreed     int
	AgreementPercent float64
}

func (r ConversionReport) String() string {
	s := fmt.Sprintf("%s -> %s (%d warning(s))", r.Input, r.Output, len(r.Warnings))
	if r.Verified {
		s += fmt.Sprintf(", verify: %d/%d frames agreed (%.1f%%)", r.FramesAgreed, r.FramesCompared, r.AgreementPercent)
	}
	return s
}

// verifyRoundtrip unpacks the just-wrapped SF2 image back into a PSID,
// plays both the original tune and the roundtripped one for verifyFrames
// frames, and compares their raw SID register traces. It is a spot-check,
// not a correctness proof: driverwrap.Wrap is not given real data-pointer
// patches by this CLI (see internal/driverwrap's Wrap doc comment), so a
// tune whose player code reads its own tables by absolute address will
// legitimately disagree after relocation — that is expected, not a bug in
// the checker.
func verifyRoundtrip(originalSID []byte, image []byte) (framesCompared, framesAgreed int, err error) {
	file, err := sf2.Parse(image)
	if err != nil {
		return 0, 0, fmt.Errorf("verify: re-parsing wrapped image: %w", err)
	}
	roundtripped, err := driverwrap.Unpack(file, driverwrap.UnpackOptions{Title: "verify"})
	if err != nil {
		return 0, 0, fmt.Errorf("verify: unpacking wrapped image: %w", err)
	}

	orig := sidplayer.New()
	if err := orig.Init(originalSID, 1); err != nil {
		return 0, 0, fmt.Errorf("verify: running original tune: %w", err)
	}
	redone := sidplayer.New()
	if err := redone.Init(roundtripped, 1); err != nil {
		return 0, 0, fmt.Errorf("verify: running roundtripped tune: %w", err)
	}

	origFrames, err := orig.RunFrames(verifyFrames)
	if err != nil {
		return 0, 0, fmt.Errorf("verify: playing original tune: %w", err)
	}
	redoneFrames, err := redone.RunFrames(verifyFrames)
	if err != nil {
		return 0, 0, fmt.Errorf("verify: playing roundtripped tune: %w", err)
	}

	n := len(origFrames)
	if len(redoneFrames) < n {
		n = len(redoneFrames)
	}
	agreed := 0
	for i := 0; i < n; i++ {
		if origFrames[i].Raw == redoneFrames[i].Raw {
			agreed++
		}
	}
	return n, agreed, nil
}
