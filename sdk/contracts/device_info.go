package contracts

import "fmt"

// DeviceInfo contains information about a MIDI input device.
type DeviceInfo struct {
	ID           int    // Index to pass to ClientMIDI.Listen.
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}

// String returns a one-line label suitable for device pickers.
func (d DeviceInfo) String() string {
	if d.Manufacturer == "" {
		return fmt.Sprintf("%d: %s", d.ID, d.Name)
	}
	return fmt.Sprintf("%d: %s (%s)", d.ID, d.Name, d.Manufacturer)
}
