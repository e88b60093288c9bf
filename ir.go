package wiimote

import (
	"math"

	"github.com/gowiimote/wiiuse/report"
)

// IRMode is the camera's currently selected reporting mode.
type IRMode int

const (
	IRDisabled IRMode = iota
	IRBasic
	IRExtended
	IRFull
)

// IRDot is one tracked IR sensor dot.
type IRDot struct {
	Visible bool
	RawX, RawY uint16
	NormX, NormY float32
	Size         uint32
}

// IRCamera is the published IR camera block (§3).
type IRCamera struct {
	Mode IRMode
	Dots [4]IRDot

	Position Vec2
	Middle   Vec2
	Distance float32

	IndexA, IndexB int
}

// irTracker remembers the previous frame's tracked-pair positions so a
// dropped dot can be re-paired to the closest surviving candidate, via
// squared-distance matching against two fixed indices rather than a full
// smoothed pointer.
type irTracker struct {
	havePrev   bool
	prevA      Vec2
	prevB      Vec2
}

// handleIR decodes one IR payload (10 bytes = two BasicIR blocks, 12 bytes
// = four ExtendedIR dots) and updates the camera block, including the
// stable (indexA, indexB) pair (§4.B IR parsing).
func (e *Engine) handleIR(_ report.InputID, data []byte) {
	cam := &e.state.IRCamera
	switch len(data) {
	case 10:
		cam.Mode = IRBasic
		dotsA, ok1 := report.DecodeBasicIR(data[0:5])
		dotsB, ok2 := report.DecodeBasicIR(data[5:10])
		if !ok1 || !ok2 {
			return
		}
		cam.Dots[0] = basicDotToIRDot(dotsA[0])
		cam.Dots[1] = basicDotToIRDot(dotsA[1])
		cam.Dots[2] = basicDotToIRDot(dotsB[0])
		cam.Dots[3] = basicDotToIRDot(dotsB[1])
	case 12:
		cam.Mode = IRExtended
		for i := 0; i < 4; i++ {
			dot, ok := report.DecodeExtendedIR(data[i*3 : i*3+3])
			if !ok {
				return
			}
			cam.Dots[i] = extendedDotToIRDot(dot)
		}
	default:
		return
	}
	e.updateIRPair(cam)
}

func basicDotToIRDot(d report.BasicIRDot) IRDot {
	visible := d.X != 1023 || d.Y != 1023
	return IRDot{
		Visible: visible,
		RawX:    d.X,
		RawY:    d.Y,
		NormX:   float32(d.X) / 1023,
		NormY:   float32(d.Y) / 767,
	}
}

func extendedDotToIRDot(d report.ExtendedIRDot) IRDot {
	visible := d.X != 1023 || d.Y != 1023
	return IRDot{
		Visible: visible,
		RawX:    d.X,
		RawY:    d.Y,
		NormX:   float32(d.X) / 1023,
		NormY:   float32(d.Y) / 767,
		Size:    uint32(d.Size),
	}
}

// updateIRPair keeps (IndexA, IndexB) fixed while both dots stay visible
// and re-pairs to the two visible dots closest to the previous pair's
// positions otherwise.
func (e *Engine) updateIRPair(cam *IRCamera) {
	a, b := cam.IndexA, cam.IndexB
	if a != b && cam.Dots[a].Visible && cam.Dots[b].Visible {
		e.ir.havePrev = true
		e.ir.prevA = dotVec(cam.Dots[a])
		e.ir.prevB = dotVec(cam.Dots[b])
	} else {
		visible := make([]int, 0, 4)
		for i, d := range cam.Dots {
			if d.Visible {
				visible = append(visible, i)
			}
		}
		switch {
		case len(visible) >= 2:
			newA, newB := e.guessPair(cam, visible)
			cam.IndexA, cam.IndexB = newA, newB
			a, b = newA, newB
			e.ir.havePrev = true
			e.ir.prevA = dotVec(cam.Dots[a])
			e.ir.prevB = dotVec(cam.Dots[b])
		case len(visible) == 1:
			e.ir.havePrev = false
		default:
			e.ir.havePrev = false
		}
	}

	if a != b && cam.Dots[a].Visible && cam.Dots[b].Visible {
		da, db := dotVec(cam.Dots[a]), dotVec(cam.Dots[b])
		cam.Middle = Vec2{X: 0.5 * (da.X + db.X), Y: 0.5 * (da.Y + db.Y)}
		cam.Position = cam.Middle
		cam.Distance = vec2Len(Vec2{X: da.X - db.X, Y: da.Y - db.Y})
	}
}

// guessPair picks the two visible dot indices whose positions are closest
// to the previous frame's tracked pair by squared distance. When there is
// no previous pair to match against, it falls back to the first two
// visible indices.
func (e *Engine) guessPair(cam *IRCamera, visible []int) (int, int) {
	if !e.ir.havePrev || len(visible) < 2 {
		return visible[0], visible[1]
	}
	bestA, bestB := visible[0], visible[1]
	bestCost := float32(-1)
	for i := 0; i < len(visible); i++ {
		for j := i + 1; j < len(visible); j++ {
			ia, ib := visible[i], visible[j]
			va, vb := dotVec(cam.Dots[ia]), dotVec(cam.Dots[ib])
			cost := sqDist(va, e.ir.prevA) + sqDist(vb, e.ir.prevB)
			costSwap := sqDist(va, e.ir.prevB) + sqDist(vb, e.ir.prevA)
			if costSwap < cost {
				cost = costSwap
				ia, ib = ib, ia
			}
			if bestCost < 0 || cost < bestCost {
				bestCost = cost
				bestA, bestB = ia, ib
			}
		}
	}
	return bestA, bestB
}

func dotVec(d IRDot) Vec2 {
	return Vec2{X: d.NormX, Y: d.NormY}
}

func sqDist(a, b Vec2) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func vec2Len(v Vec2) float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}
