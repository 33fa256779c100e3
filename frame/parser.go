package frame

import "github.com/Soochol/PSA-sensor-test/crc8"

// ParseResult classifies the outcome of one Parser.Parse call.
type ParseResult int

const (
	// OK means a well-formed frame was extracted.
	OK ParseResult = iota
	// Incomplete means the buffer does not yet hold a whole frame; Feed
	// more bytes and try again. Leading bytes before the first STX are
	// dropped; nothing from the STX on is consumed.
	Incomplete
	// CRCErrorResult means a frame-shaped run of bytes had a CRC mismatch.
	// One byte (the leading STX) is consumed so the next Parse can attempt
	// to resynchronise.
	CRCErrorResult
	// FormatErrorResult means a frame-shaped run of bytes violated the
	// wire format (bad LEN or missing ETX). One byte is consumed.
	FormatErrorResult
)

func (r ParseResult) String() string {
	switch r {
	case OK:
		return "OK"
	case Incomplete:
		return "INCOMPLETE"
	case CRCErrorResult:
		return "CRC_ERROR"
	case FormatErrorResult:
		return "FORMAT_ERROR"
	default:
		return "UNKNOWN"
	}
}

// compactThreshold bounds how far the read cursor is allowed to drift from
// the front of the backing slice before Parser reclaims the consumed
// prefix. This keeps per-byte parse cost amortised O(1) instead of
// shifting the whole buffer on every successful parse (see design notes:
// a read-cursor pair beats naive shift-on-consume).
const compactThreshold = 4096

// Parser is a byte accumulator that incrementally extracts Frames from an
// unbounded, possibly noisy stream. It owns a mutable buffer; it is not
// safe for concurrent use.
type Parser struct {
	buf  []byte
	head int
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends data to the accumulator.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Clear drops all buffered bytes.
func (p *Parser) Clear() {
	p.buf = p.buf[:0]
	p.head = 0
}

// BufferSize returns the number of unconsumed bytes currently buffered.
func (p *Parser) BufferSize() int {
	return len(p.buf) - p.head
}

// Parse attempts to extract one frame from the head of the buffer.
//
//   - OK: a frame was extracted; consumed is the number of bytes the frame
//     occupied on the wire.
//   - Incomplete: not enough bytes yet; consumed is 0 and nothing from the
//     first STX on is consumed, though bytes ahead of it are dropped.
//   - CRCErrorResult / FormatErrorResult: the leading STX was discarded so
//     the next call can attempt to resynchronise; consumed is 1.
//
// Every non-OK outcome either advances the buffer by at least one byte or
// reports Incomplete, so Parse can never spin forever on a fixed buffer.
func (p *Parser) Parse() (result ParseResult, f *Frame, consumed int) {
	defer p.maybeCompact()

	// Step 1: scan for STX, discarding everything before it.
	for p.head < len(p.buf) && p.buf[p.head] != STX {
		p.head++
	}
	if p.head >= len(p.buf) {
		return Incomplete, nil, 0
	}

	avail := p.buf[p.head:]

	// Step 2a: need at least STX and LEN to validate the length byte.
	if len(avail) < 2 {
		return Incomplete, nil, 0
	}

	length := int(avail[1])

	// Step 3: length validation happens as soon as LEN is available, ahead
	// of requiring the CMD byte — a declared length that is already
	// impossible doesn't need more bytes to be rejected.
	if length > MaxPayload {
		p.head++
		return FormatErrorResult, nil, 1
	}

	// Step 2b: header check — now also require CMD.
	if len(avail) < 3 {
		return Incomplete, nil, 0
	}
	cmd := Command(avail[2])

	// Step 4: whole-frame availability — STX + LEN + CMD + payload + CRC + ETX.
	frameLen := length + 5
	if len(avail) < frameLen {
		return Incomplete, nil, 0
	}

	// Step 5: sentinel check.
	if avail[frameLen-1] != ETX {
		p.head++
		return FormatErrorResult, nil, 1
	}

	// Step 6: CRC check over LEN | CMD | PAYLOAD.
	crcData := avail[1 : 3+length]
	gotCRC := avail[3+length]
	wantCRC := crc8.Calculate(crcData)
	if gotCRC != wantCRC {
		p.head++
		return CRCErrorResult, nil, 1
	}

	// Step 7: success.
	payload := make([]byte, length)
	copy(payload, avail[3:3+length])
	p.head += frameLen

	frame := Frame{Cmd: cmd, Payload: payload}
	return OK, &frame, frameLen
}

// maybeCompact reclaims the consumed prefix once the read cursor has
// drifted far enough that keeping it around is wasteful.
func (p *Parser) maybeCompact() {
	if p.head == 0 {
		return
	}
	if p.head < compactThreshold && p.head*2 < len(p.buf) {
		return
	}
	remaining := len(p.buf) - p.head
	copy(p.buf, p.buf[p.head:])
	p.buf = p.buf[:remaining]
	p.head = 0
}
