package rewrite

import "bytes"

// CarrySize is the capacity of the carry window retained between chunks to
// catch markers split across a chunk boundary. It must be at least one byte
// shorter than the longest marker ("</body>").
const CarrySize = 8

// State is the injector's position in the response body.
type State int

const (
	// StateInit means the opening <body ...> has not been seen yet.
	StateInit State = iota
	// StateBodyOpened means the noscript block has been injected and the
	// injector is scanning for </body>.
	StateBodyOpened
	// StateBodyClosed means both blocks are injected; remaining chunks pass
	// through untouched.
	StateBodyClosed
)

var (
	markerBodyOpen  = []byte("<body")
	markerBodyClose = []byte("</body>")
)

// Injector is the streaming scanner/injector for one response body. It
// receives the body as an arbitrary sequence of chunks, locates the insertion
// points and splices in the two payload blocks without ever buffering more
// than the carry window. The concatenation of all returned chunks equals the
// input plus exactly the two insertions, for any chunking of the same byte
// stream.
//
// Not safe for concurrent use; each response owns its injector.
type Injector struct {
	state    State
	noscript []byte
	script   []byte

	// carry holds trailing bytes withheld from the previous chunk because
	// they could begin a marker that completes in the next one.
	carry []byte

	// seekBracket is set after <body was found but its closing > was not in
	// the same chunk; only the bracket is then sought.
	seekBracket bool
}

// NewInjector creates an injector that splices the noscript block right
// after the opening <body ...> tag and the script block right after the
// closing </body> marker.
func NewInjector(noscript, script []byte) *Injector {
	return &Injector{
		state:    StateInit,
		noscript: noscript,
		script:   script,
		carry:    make([]byte, 0, CarrySize),
	}
}

// State returns the injector's current state.
func (in *Injector) State() State {
	return in.state
}

// Rewrite scans one body chunk and returns the output chunks to forward, in
// order: unmodified slices of the input interleaved with payload insertions.
// Some trailing bytes may be withheld until the next call (or Flush) when
// they could begin a marker split across the boundary.
func (in *Injector) Rewrite(chunk []byte) [][]byte {
	if in.state == StateBodyClosed && len(in.carry) == 0 {
		if len(chunk) == 0 {
			return nil
		}
		return [][]byte{chunk}
	}

	// Prepend the carry window so markers straddling the boundary are seen.
	buf := make([]byte, 0, len(in.carry)+len(chunk))
	buf = append(buf, in.carry...)
	buf = append(buf, chunk...)
	in.carry = in.carry[:0]

	var out [][]byte
	emit := func(b []byte) {
		if len(b) > 0 {
			out = append(out, b)
		}
	}

	pos := 0
	for pos <= len(buf) {
		switch {
		case in.seekBracket:
			// <body was found earlier; only its terminating > is sought.
			j := bytes.IndexByte(buf[pos:], '>')
			if j < 0 {
				emit(buf[pos:])
				return out
			}
			cut := pos + j + 1
			emit(buf[pos:cut])
			emit(in.noscript)
			pos = cut
			in.seekBracket = false
			in.state = StateBodyOpened

		case in.state == StateInit:
			i := IndexFold(buf[pos:], markerBodyOpen)
			if i < 0 {
				pos = in.holdTail(buf, pos, len(markerBodyOpen), emit)
				return out
			}
			// Emit through the marker, then hunt for the tag's >.
			cut := pos + i + len(markerBodyOpen)
			emit(buf[pos:cut])
			pos = cut
			in.seekBracket = true

		case in.state == StateBodyOpened:
			i := IndexFold(buf[pos:], markerBodyClose)
			if i < 0 {
				pos = in.holdTail(buf, pos, len(markerBodyClose), emit)
				return out
			}
			cut := pos + i + len(markerBodyClose)
			emit(buf[pos:cut])
			emit(in.script)
			pos = cut
			in.state = StateBodyClosed

		default: // StateBodyClosed
			emit(buf[pos:])
			return out
		}
	}
	return out
}

// Flush returns any withheld trailing bytes. Call once after the final body
// chunk so the output stream carries every input byte.
func (in *Injector) Flush() []byte {
	if len(in.carry) == 0 {
		return nil
	}
	tail := make([]byte, len(in.carry))
	copy(tail, in.carry)
	in.carry = in.carry[:0]
	return tail
}

// holdTail emits everything except the trailing window that could begin the
// sought marker, stores that window as the carry, and returns the new scan
// position (always the end of buf).
func (in *Injector) holdTail(buf []byte, pos, markerLen int, emit func([]byte)) int {
	keep := markerLen - 1
	if rem := len(buf) - pos; rem < keep {
		keep = rem
	}
	cut := len(buf) - keep
	emit(buf[pos:cut])
	in.carry = append(in.carry[:0], buf[cut:]...)
	return len(buf)
}
