package wiimote

// MotionSample is the motion-fusion input the core forwards to
// consumers: the calibrated (unfused) accelerometer triple and its
// magnitude of change since the previous sample. Orientation solving itself is out of scope
// (§1); the core only ever forwards these two numbers.
type MotionSample struct {
	Accel     Vec3
	DeltaMag  float32
}

// ExtensionTag discriminates the Snapshot's extension block.
type ExtensionTag int

const (
	ExtTagNone ExtensionTag = iota
	ExtTagNunchuk
	ExtTagClassic
)

// Snapshot is the copy-only value type returned by Provider.GetState
// (§3/§4.E). It shares the Engine's State layout but is decoupled from
// it so consumers never observe mid-update tearing.
type Snapshot struct {
	Buttons      uint16
	Connected    bool
	ExtensionID  ExtensionTag
	Battery      uint8
	Roll         float32
	Motion       MotionSample
	IRCamera     IRCamera
	HasMotionPlus bool
	MotionPlus   MotionPlusState
	Nunchuk      NunchukData
	Classic      ClassicData
}

// buildSnapshot composes the published Snapshot from the Engine's current
// state and the supervisor-level roll derivation (§4.B Roll derivation).
func buildSnapshot(connected bool, st State, roll float32) Snapshot {
	tag := ExtTagNone
	switch st.ExtensionKind {
	case ExtKindNunchuk:
		tag = ExtTagNunchuk
	case ExtKindClassic:
		tag = ExtTagClassic
	}
	delta := Vec3{
		X: st.Acceleration.X - st.AccelerationPrev.X,
		Y: st.Acceleration.Y - st.AccelerationPrev.Y,
		Z: st.Acceleration.Z - st.AccelerationPrev.Z,
	}
	return Snapshot{
		Buttons:       st.Buttons,
		Connected:     connected,
		ExtensionID:   tag,
		Battery:       st.Battery,
		Roll:          roll,
		Motion:        MotionSample{Accel: st.Acceleration, DeltaMag: vec3Len(delta)},
		IRCamera:      st.IRCamera,
		HasMotionPlus: st.HasMotionPlus,
		MotionPlus:    st.MotionPlus,
		Nunchuk:       st.NunchukData,
		Classic:       st.ClassicData,
	}
}

func vec3Len(v Vec3) float32 {
	return sqrt32(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
