// Package packet splits driver buffers into individual channel-voice messages.
package packet

// Split walks a buffer that may hold several MIDI messages, including running
// status, and calls fn for each three-byte channel-voice message. Two-byte
// messages are skipped; system messages end the walk.
func Split(data []byte, fn func(msg [3]byte)) {
	var status byte
	for i := 0; i < len(data); {
		b := data[i]
		if b&0x80 != 0 {
			if b >= 0xF0 {
				return
			}
			status = b
			i++
		} else if status == 0 {
			// Data byte without a status to run on.
			i++
			continue
		}

		n := dataLen(status)
		if i+n > len(data) {
			return
		}
		if n == 2 {
			fn([3]byte{status, data[i], data[i+1]})
		}
		i += n
	}
}

func dataLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	default:
		return 2
	}
}
