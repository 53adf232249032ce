package dwapi

// CharReader is a rune-level cursor over a string with pushback. The
// hand-written header and condition parsers use it to hand a rune back to the
// stream once a state decides the rune belongs to the next state.
type CharReader struct {
	runes  []rune
	pos    int
	pushed []rune
}

// NewCharReader returns a cursor positioned at the start of text.
func NewCharReader(text string) *CharReader {
	return &CharReader{runes: []rune(text)}
}

// Get consumes and returns the next rune. The second return value is false at
// end of input.
func (r *CharReader) Get() (rune, bool) {
	if n := len(r.pushed); n > 0 {
		ch := r.pushed[n-1]
		r.pushed = r.pushed[:n-1]

		return ch, true
	}

	if r.pos >= len(r.runes) {
		return 0, false
	}

	ch := r.runes[r.pos]
	r.pos++

	return ch, true
}

// Unget pushes ch back onto the stream. Any number of runes may be pushed
// back; they are consumed most-recently-pushed first.
func (r *CharReader) Unget(ch rune) {
	r.pushed = append(r.pushed, ch)
}

// Peek returns the next rune without consuming it.
func (r *CharReader) Peek() (rune, bool) {
	ch, ok := r.Get()
	if ok {
		r.Unget(ch)
	}

	return ch, ok
}
