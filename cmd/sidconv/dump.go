package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"sid2sf2/internal/psid"
	"sid2sf2/internal/sf2"
)

func runDump(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("dump: expected a file")
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if len(data) >= 4 && (string(data[0:4]) == "PSID" || string(data[0:4]) == "RSID") {
		return dumpPSID(data)
	}
	if len(data) >= 4 && binary.LittleEndian.Uint16(data[2:4]) == sf2.Magic {
		return dumpSF2(data)
	}
	return fmt.Errorf("dump %s: neither a PSID/RSID nor an SF2 file", path)
}

func dumpPSID(data []byte) error {
	f, err := psid.Parse(data)
	if err != nil {
		return err
	}
	h := f.Header
	fmt.Printf("%s v%d  load=$%04X init=$%04X play=$%04X songs=%d/%d\n",
		h.Magic, h.Version, f.LoadAddr, h.InitAddr, h.PlayAddr, h.StartSong, h.Songs)
	fmt.Printf("title:    %s\n", h.Title)
	fmt.Printf("author:   %s\n", h.Author)
	fmt.Printf("released: %s\n", h.Released)
	fmt.Printf("image:    %d bytes\n", len(f.Image))
	return nil
}

func dumpSF2(data []byte) error {
	f, err := sf2.Parse(data)
	if err != nil {
		return err
	}
	fmt.Printf("SF2  load=$%04X driver=%q init=$%04X play=$%04X stop=$%04X\n",
		f.LoadAddr, f.Descriptor.DriverName, f.Common.InitAddr, f.Common.UpdateAddr, f.Common.StopAddr)
	fmt.Printf("tracks: %d  sequences: %d  orderlist stride: $%02X  sequence stride: $%02X\n",
		f.Music.TrackCount, f.Music.SequenceCount, f.Music.OrderlistSize, f.Music.SequenceSize)
	for _, t := range f.Tables {
		fmt.Printf("table %-12s kind=$%02X addr=$%04X cols=%d rows=%d\n", t.Name, byte(t.Kind), t.Address, t.Columns, t.Rows)
	}
	return nil
}
