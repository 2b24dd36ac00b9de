package game

// messageCap is how many transient messages the rolling log retains.
const messageCap = 5

// MessageLog is a fixed-size rolling log of transient player-facing messages,
// newest first.
type MessageLog struct {
	entries []string
}

// Push prepends a message, evicting the oldest beyond the cap.
func (l *MessageLog) Push(msg string) {
	l.entries = append([]string{msg}, l.entries...)
	if len(l.entries) > messageCap {
		l.entries = l.entries[:messageCap]
	}
}

// All returns the retained messages, newest first.
func (l *MessageLog) All() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Replace swaps in a restored log, trimming to the cap.
func (l *MessageLog) Replace(msgs []string) {
	if len(msgs) > messageCap {
		msgs = msgs[:messageCap]
	}
	l.entries = append([]string(nil), msgs...)
}

// Clear empties the log.
func (l *MessageLog) Clear() {
	l.entries = nil
}
