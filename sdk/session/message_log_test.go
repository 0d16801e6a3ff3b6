package session

import (
	"slices"
	"testing"
)

func TestMessageLogWraps(t *testing.T) {
	l := NewMessageLog(3)
	if got := l.Lines(); len(got) != 0 {
		t.Fatalf("new log not empty: %q", got)
	}
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		l.Append(s)
	}
	if got := l.Lines(); !slices.Equal(got, []string{"c", "d", "e"}) {
		t.Fatalf("Lines() = %q", got)
	}
	if got := l.Tail(2); !slices.Equal(got, []string{"d", "e"}) {
		t.Fatalf("Tail(2) = %q", got)
	}
	if got := l.Tail(10); len(got) != 3 {
		t.Fatalf("Tail(10) = %q", got)
	}
}

func TestMessageLogTailNonPositive(t *testing.T) {
	l := NewMessageLog(3)
	l.Append("note on: 60")
	for _, n := range []int{0, -1, -10} {
		if got := l.Tail(n); got != nil {
			t.Errorf("Tail(%d) = %q, want nil", n, got)
		}
	}
}
