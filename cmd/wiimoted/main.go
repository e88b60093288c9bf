// Command wiimoted is a small demo consumer of the wiimote package: it
// enumerates controllers, prints their published snapshots as they
// arrive, and exposes a couple of flags to exercise the LED/rumble/IR
// control paths interactively.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gowiimote/wiiuse"
)

var (
	player = flag.Int("player", 1, "player index (1-16) to show on the LEDs of the first connected controller")
	rumble = flag.Duration("rumble", 0, "if >0, pulse the rumble motor of the first controller for this long and exit")
	ir     = flag.Bool("ir", false, "enable the IR camera on the first controller")
	poll   = flag.Duration("poll", 200*time.Millisecond, "snapshot print interval")
)

func main() {
	flag.Parse()

	p := wiimote.NewProvider(newEnumerator())
	defer p.Close()

	indices := p.GetControllers()
	if len(indices) == 0 {
		log.Fatal("wiimoted: no controllers found")
	}
	first := indices[0]

	p.SetLed(first, *player-1)
	if *ir {
		p.SetIrCamera(first, true)
	}
	if *rumble > 0 {
		p.SetRumble(first, true)
		time.Sleep(*rumble)
		p.SetRumble(first, false)
		return
	}

	ticker := time.NewTicker(*poll)
	defer ticker.Stop()
	for range ticker.C {
		for _, idx := range p.GetControllers() {
			st := p.GetState(idx)
			fmt.Printf("[%d] connected=%v buttons=%#04x battery=%d roll=%.1f accel=%+v\n",
				idx, st.Connected, st.Buttons, st.Battery, st.Roll, st.Motion.Accel)
		}
	}
}
