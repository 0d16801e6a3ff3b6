package music

import (
	"math"
	"strconv"
)

const (
	// ConcertA is the MIDI note number of A4.
	ConcertA = 69
	// ConcertAHz is the tuning reference for ConcertA.
	ConcertAHz = 440.0
	// MiddleC is the MIDI note number of C4.
	MiddleC = 60
)

// RealNote counts diatonic steps (not semitones) from C of MIDI octave 0.
// Notes in MIDI octave -1 (note numbers 0-11) give negative values.
type RealNote int

// scaleDegrees collapses each black key onto the natural above it, so C#
// shares D's staff position.
var scaleDegrees = [12]int{0, 1, 1, 2, 2, 3, 4, 4, 5, 5, 6, 6}

var letters = [7]byte{'C', 'D', 'E', 'F', 'G', 'A', 'B'}

// Frequency returns the equal-tempered frequency of note with A4 = 440 Hz.
func Frequency(note uint8) float64 {
	return ConcertAHz * math.Pow(2, (float64(note)-ConcertA)/12)
}

// ToRealNote returns the diatonic position of a MIDI note.
func ToRealNote(note uint8) RealNote {
	octave := int(note)/12 - 1
	return RealNote(octave*7 + scaleDegrees[note%12])
}

// NoteName returns the letter and octave of a diatonic position, e.g. "C4".
func NoteName(r RealNote) string {
	octave, degree := floorDiv(int(r), 7)
	return string(letters[degree]) + strconv.Itoa(octave)
}

// String implements fmt.Stringer.
func (r RealNote) String() string { return NoteName(r) }

// Accidental reports whether note is a black key, i.e. whether its diatonic
// position is shared with the natural above it.
func Accidental(note uint8) bool {
	pc := note % 12
	return pc < 11 && scaleDegrees[pc] == scaleDegrees[pc+1]
}

// Spelling names a MIDI note as drawn on the staff. Black keys sit on the
// upper natural's position and are spelled as its flat, e.g. 61 is "Db4".
func Spelling(note uint8) string {
	octave, degree := floorDiv(int(ToRealNote(note)), 7)
	name := string(letters[degree])
	if Accidental(note) {
		name += "b"
	}
	return name + strconv.Itoa(octave)
}

func floorDiv(a, b int) (q, r int) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}
