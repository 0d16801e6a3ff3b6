// Package render draws the grand staff and one marker per held note.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Staff lines, bottom to top, as MIDI notes.
var (
	trebleLines = []uint8{64, 67, 71, 74, 77} // E4 G4 B4 D5 F5
	bassLines   = []uint8{43, 47, 50, 53, 57} // G2 B2 D3 F3 A3
)

var (
	paperColor  = color.White
	inkColor    = color.Black
	markerColor = color.RGBA{R: 0xD0, G: 0x30, B: 0x30, A: 0xFF}
)

const (
	defaultWidth  = 800
	defaultHeight = 1000
	staffLeft     = 60.0
	firstMarkerX  = 200.0
	markerSpacing = 60.0
)

// Staff renders frames against a fixed staff background. It is safe for
// concurrent use; each Render allocates its own canvas.
type Staff struct {
	calib      music.Calibration
	width      int
	height     int
	face       font.Face
	background image.Image
}

// NewStaff prepares the background for the given calibration. Zero width or
// height selects the default canvas size.
func NewStaff(calib music.Calibration, width, height int) (*Staff, error) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	s := &Staff{
		calib:  calib,
		width:  width,
		height: height,
		face:   truetype.NewFace(f, &truetype.Options{Size: float64(calib.StepHeight) * 0.8}),
	}
	s.background = s.drawBackground()
	return s, nil
}

// drawBackground draws both staves. Line rows come from the calibration, so
// the image always agrees with VerticalPosition.
func (s *Staff) drawBackground() image.Image {
	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(paperColor)
	dc.Clear()

	dc.SetColor(inkColor)
	dc.SetLineWidth(2)
	for _, lines := range [][]uint8{trebleLines, bassLines} {
		for _, note := range lines {
			y := float64(s.calib.VerticalPosition(note))
			dc.DrawLine(staffLeft, y, float64(s.width)-staffLeft, y)
			dc.Stroke()
		}
	}

	top := float64(s.calib.VerticalPosition(trebleLines[len(trebleLines)-1]))
	bottom := float64(s.calib.VerticalPosition(bassLines[0]))
	dc.DrawLine(staffLeft, top, staffLeft, bottom)
	dc.Stroke()

	dc.SetFontFace(s.face)
	dc.DrawStringAnchored("treble", staffLeft+10, top-float64(s.calib.StepHeight), 0, 0.5)
	dc.DrawStringAnchored("bass", staffLeft+10, bottom+float64(s.calib.StepHeight), 0, 0.5)
	return dc.Image()
}

// MarkerX returns the horizontal centre of the i-th marker.
func MarkerX(i int) float64 {
	return firstMarkerX + float64(i)*markerSpacing
}

// Render draws one labelled marker per note on top of the staff. Notes are
// placed left to right in the order given.
func (s *Staff) Render(notes []uint8) image.Image {
	dc := gg.NewContext(s.width, s.height)
	dc.DrawImage(s.background, 0, 0)
	dc.SetFontFace(s.face)

	radius := float64(s.calib.StepHeight) / 2
	for i, note := range notes {
		x := MarkerX(i)
		y := float64(s.calib.VerticalPosition(note))

		if ledger, ok := s.ledgerRow(note); ok {
			dc.SetColor(inkColor)
			dc.SetLineWidth(2)
			dc.DrawLine(x-radius*1.8, ledger, x+radius*1.8, ledger)
			dc.Stroke()
		}

		dc.SetColor(markerColor)
		dc.DrawCircle(x, y, radius)
		dc.Fill()

		label := music.Spelling(note)
		dc.SetColor(inkColor)
		dc.DrawStringAnchored(label, x, y+radius*2.2, 0.5, 0.5)
	}
	return dc.Image()
}

// ledgerRow returns the row of the middle-C ledger line for notes drawn on it.
func (s *Staff) ledgerRow(note uint8) (float64, bool) {
	if music.ToRealNote(note) != music.ToRealNote(music.MiddleC) {
		return 0, false
	}
	return float64(s.calib.VerticalPosition(note)), true
}

// SavePNG renders notes and writes the frame to path.
func (s *Staff) SavePNG(path string, notes []uint8) error {
	img := s.Render(notes)
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	return nil
}
