package session

import "sync"

// MessageLog keeps the most recent lines describing decoded MIDI messages,
// such as "note on: 60" or "unknown".
type MessageLog struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewMessageLog returns a log holding at most size lines.
func NewMessageLog(size int) *MessageLog {
	if size <= 0 {
		size = DefaultMessageLogSize
	}
	return &MessageLog{lines: make([]string, size)}
}

// Append records line, evicting the oldest when the log is full.
func (l *MessageLog) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[l.next] = line
	l.next = (l.next + 1) % len(l.lines)
	if l.next == 0 {
		l.full = true
	}
}

// Lines returns the retained lines, oldest first.
func (l *MessageLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		return append([]string(nil), l.lines[:l.next]...)
	}
	out := make([]string, 0, len(l.lines))
	out = append(out, l.lines[l.next:]...)
	return append(out, l.lines[:l.next]...)
}

// Tail returns at most n of the newest lines, oldest first.
func (l *MessageLog) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	lines := l.Lines()
	if n < len(lines) {
		return lines[len(lines)-n:]
	}
	return lines
}
