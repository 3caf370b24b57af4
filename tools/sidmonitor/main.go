// Command sidmonitor is an interactive REPL for stepping a loaded SID
// tune frame by frame and inspecting SID register writes as they happen —
// a collaborator tool for diagnosing a conversion candidate, not part of
// the core conversion pipeline.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"sid2sf2/internal/sidplayer"
)

type session struct {
	harness *sidplayer.Harness
	path    string
	subtune int
	last    *sidplayer.FrameState
	frame   int
}

func main() {
	s := &session{}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		return completions(in)
	})

	fmt.Println("sidmonitor — type 'help' for commands")
	for {
		cmd, err := line.Prompt("sidmon> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Fprintln(os.Stderr, "error reading line:", err)
			return
		}
		line.AppendHistory(cmd)
		if quit := s.dispatch(cmd); quit {
			return
		}
	}
}

func completions(prefix string) []string {
	all := []string{"load", "step", "run", "regs", "voices", "help", "quit"}
	var out []string
	for _, c := range all {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (s *session) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		s.help()
	case "load":
		s.load(fields[1:])
	case "step":
		s.step(fields[1:])
	case "run":
		s.run(fields[1:])
	case "regs":
		s.regs()
	case "voices":
		s.voices()
	default:
		fmt.Printf("unknown command %q — type 'help'\n", fields[0])
	}
	return false
}

func (s *session) help() {
	fmt.Println("load <path> [subtune]   load a PSID/RSID file and run its init routine")
	fmt.Println("step [n]                advance n frames (default 1), printing register deltas")
	fmt.Println("run <n>                 advance n frames silently, then print the last frame")
	fmt.Println("regs                    print the last captured frame's raw SID registers")
	fmt.Println("voices                  print the last captured frame's decoded voice state")
	fmt.Println("quit                    exit")
}

func (s *session) load(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: load <path> [subtune]")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	subtune := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Println("error: subtune must be a number")
			return
		}
		subtune = n
	}

	h := sidplayer.New()
	if err := h.Init(data, subtune); err != nil {
		fmt.Println("error:", err)
		return
	}
	s.harness = h
	s.path = args[0]
	s.subtune = subtune
	s.frame = 0
	s.last = nil
	fmt.Printf("loaded %s, subtune %d\n", args[0], subtune)
}

func (s *session) step(args []string) {
	if s.harness == nil {
		fmt.Println("error: no tune loaded — use 'load' first")
		return
	}
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("error: step count must be a number")
			return
		}
		n = v
	}

	frames, err := s.harness.RunFrames(n)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, f := range frames {
		s.frame++
		printDelta(s.frame, s.last, &f)
		fr := f
		s.last = &fr
	}
}

func (s *session) run(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: run <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("error: n must be a number")
		return
	}
	if s.harness == nil {
		fmt.Println("error: no tune loaded — use 'load' first")
		return
	}
	frames, err := s.harness.RunFrames(n)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	s.frame += len(frames)
	if len(frames) > 0 {
		fr := frames[len(frames)-1]
		s.last = &fr
	}
	s.voices()
}

func (s *session) regs() {
	if s.last == nil {
		fmt.Println("no frame captured yet")
		return
	}
	for i, b := range s.last.Raw {
		fmt.Printf("$D4%02X = $%02X\n", i, b)
	}
}

func (s *session) voices() {
	if s.last == nil {
		fmt.Println("no frame captured yet")
		return
	}
	for i, v := range s.last.Voices {
		fmt.Printf("voice %d: freq=$%04X pulse=$%04X ctrl=$%02X env(AD=$%02X SR=$%02X)\n",
			i, v.Frequency, v.PulseW, v.Control, v.Envelope>>8, v.Envelope&0xFF)
	}
	fmt.Printf("filter:  cutoff=$%04X ctl=$%02X vol=$%02X\n", s.last.FilterCutoff, s.last.FilterCtl, s.last.FilterVol)
}

func printDelta(frame int, prev, cur *sidplayer.FrameState) {
	if prev == nil {
		fmt.Printf("frame %d: (first frame)\n", frame)
		return
	}
	for i := range cur.Raw {
		if cur.Raw[i] != prev.Raw[i] {
			fmt.Printf("frame %d: $D4%02X $%02X -> $%02X\n", frame, i, prev.Raw[i], cur.Raw[i])
		}
	}
}
