package music

import (
	"math"
	"testing"
)

func TestFrequencyConcertA(t *testing.T) {
	if got := Frequency(69); got != 440.0 {
		t.Fatalf("Frequency(69) = %v, want 440", got)
	}
}

func TestFrequencyOctaveDoubling(t *testing.T) {
	for note := 0; note+12 <= 127; note++ {
		lo, hi := Frequency(uint8(note)), Frequency(uint8(note+12))
		if math.Abs(hi-2*lo) > 1e-9*hi {
			t.Errorf("Frequency(%d) = %v, want 2 * %v", note+12, hi, lo)
		}
	}
}

func TestFrequencyKnownValues(t *testing.T) {
	tests := map[uint8]float64{
		60:  261.6256,
		57:  220.0,
		21:  27.5,
		108: 4186.009,
	}
	for note, want := range tests {
		if got := Frequency(note); math.Abs(got-want) > 1e-3 {
			t.Errorf("Frequency(%d) = %v, want %v", note, got, want)
		}
	}
}

func TestToRealNoteMonotonic(t *testing.T) {
	prev := ToRealNote(0)
	for note := 1; note <= 127; note++ {
		cur := ToRealNote(uint8(note))
		if cur < prev {
			t.Fatalf("ToRealNote(%d) = %d < ToRealNote(%d) = %d", note, cur, note-1, prev)
		}
		if cur-prev > 1 {
			t.Fatalf("ToRealNote jumps by %d at note %d", cur-prev, note)
		}
		prev = cur
	}
}

func TestToRealNote(t *testing.T) {
	tests := []struct {
		note uint8
		want RealNote
	}{
		{0, -7},
		{11, -1},
		{12, 0},
		{59, 27},
		{60, 28},
		{61, 29},
		{62, 29},
		{64, 30},
		{65, 31},
		{71, 34},
		{127, 67},
	}
	for _, tt := range tests {
		if got := ToRealNote(tt.note); got != tt.want {
			t.Errorf("ToRealNote(%d) = %d, want %d", tt.note, got, tt.want)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{60, "C4"},
		{61, "D4"},
		{69, "A4"},
		{59, "B3"},
		{21, "A0"},
		{0, "C-1"},
		{11, "B-1"},
		{127, "G9"},
	}
	for _, tt := range tests {
		if got := NoteName(ToRealNote(tt.note)); got != tt.want {
			t.Errorf("NoteName(ToRealNote(%d)) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestAccidental(t *testing.T) {
	black := map[uint8]bool{1: true, 3: true, 6: true, 8: true, 10: true}
	for note := uint8(60); note < 72; note++ {
		if got := Accidental(note); got != black[note%12] {
			t.Errorf("Accidental(%d) = %v", note, got)
		}
	}
}

func TestScaleDegreeTable(t *testing.T) {
	// One octave from middle C: black keys take the degree of the natural above.
	want := [12]RealNote{28, 29, 29, 30, 30, 31, 32, 32, 33, 33, 34, 34}
	spelled := [12]string{"C4", "Db4", "D4", "Eb4", "E4", "F4", "Gb4", "G4", "Ab4", "A4", "Bb4", "B4"}
	for pc := 0; pc < 12; pc++ {
		note := uint8(60 + pc)
		if got := ToRealNote(note); got != want[pc] {
			t.Errorf("ToRealNote(%d) = %d, want %d", note, got, want[pc])
		}
		if got := Spelling(note); got != spelled[pc] {
			t.Errorf("Spelling(%d) = %q, want %q", note, got, spelled[pc])
		}
	}
}

func TestSpellingOctaveEdges(t *testing.T) {
	tests := map[uint8]string{0: "C-1", 1: "Db-1", 11: "B-1", 70: "Bb4", 127: "G9"}
	for note, want := range tests {
		if got := Spelling(note); got != want {
			t.Errorf("Spelling(%d) = %q, want %q", note, got, want)
		}
	}
}
