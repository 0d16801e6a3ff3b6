package music

// Clef names the half of the grand staff a note is drawn on.
type Clef uint8

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "bass"
	}
	return "treble"
}

// Calibration ties diatonic positions to pixel rows of a fixed staff image.
// Notes below SplitNote use BassOrigin, the rest TrebleOrigin; each diatonic
// step moves StepHeight pixels up.
type Calibration struct {
	SplitNote    uint8
	BassOrigin   int
	TrebleOrigin int
	StepHeight   int
}

// DefaultCalibration matches the grand-staff layout drawn by the renderer:
// 20px per diatonic step, split at middle C.
var DefaultCalibration = Calibration{
	SplitNote:    MiddleC,
	BassOrigin:   913,
	TrebleOrigin: 845,
	StepHeight:   20,
}

// Clef returns the clef region note falls into.
func (c Calibration) Clef(note uint8) Clef {
	if note < c.SplitNote {
		return Bass
	}
	return Treble
}

// VerticalPosition returns the pixel row of the marker centre for note.
func (c Calibration) VerticalPosition(note uint8) int {
	pos := int(ToRealNote(note)) * c.StepHeight
	if c.Clef(note) == Bass {
		return c.BassOrigin - pos
	}
	return c.TrebleOrigin - pos
}

// VerticalPosition uses DefaultCalibration.
func VerticalPosition(note uint8) int {
	return DefaultCalibration.VerticalPosition(note)
}
