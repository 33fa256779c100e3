package frame_test

import (
	"testing"

	"github.com/Soochol/PSA-sensor-test/crc8"
	"github.com/Soochol/PSA-sensor-test/frame"
)

func pingFrameBytes(t *testing.T) []byte {
	t.Helper()
	b, err := frame.BuildPing()
	if err != nil {
		t.Fatalf("BuildPing: %v", err)
	}
	return b
}

func TestParseIncompleteFrame(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x03})
	result, f, _ := p.Parse()
	if result != frame.Incomplete || f != nil {
		t.Fatalf("Parse() = (%v, %v), want (INCOMPLETE, nil)", result, f)
	}
}

func TestParseIncompleteMissingETX(t *testing.T) {
	crc := crc8.Calculate([]byte{0x00, byte(frame.CmdPing)})
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x00, byte(frame.CmdPing), crc})
	result, f, _ := p.Parse()
	if result != frame.Incomplete || f != nil {
		t.Fatalf("Parse() = (%v, %v), want (INCOMPLETE, nil)", result, f)
	}
}

func TestParseCRCError(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x00, byte(frame.CmdPing), 0xFF, frame.ETX})
	result, f, consumed := p.Parse()
	if result != frame.CRCErrorResult || f != nil {
		t.Fatalf("Parse() = (%v, %v), want (CRC_ERROR, nil)", result, f)
	}
	if consumed != 1 {
		t.Errorf("consumed = %d, want 1", consumed)
	}
}

func TestParseFormatErrorBadETX(t *testing.T) {
	crc := crc8.Calculate([]byte{0x00, byte(frame.CmdPing)})
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x00, byte(frame.CmdPing), crc, 0xFF})
	result, f, _ := p.Parse()
	if result != frame.FormatErrorResult || f != nil {
		t.Fatalf("Parse() = (%v, %v), want (FORMAT_ERROR, nil)", result, f)
	}
}

func TestParseFormatErrorLargeLen(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 100})
	result, f, _ := p.Parse()
	if result != frame.FormatErrorResult || f != nil {
		t.Fatalf("Parse() = (%v, %v), want (FORMAT_ERROR, nil)", result, f)
	}
}

func TestParseDoesNotDeadlockAfterFormatError(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 100})
	if result, _, _ := p.Parse(); result != frame.FormatErrorResult {
		t.Fatalf("first Parse() = %v, want FORMAT_ERROR", result)
	}
	p.Feed(pingFrameBytes(t))
	result, f, _ := p.Parse()
	if result != frame.OK || f.Cmd != frame.CmdPing {
		t.Fatalf("Parse() after FORMAT_ERROR = (%v, %v), want (OK, PING)", result, f)
	}
}

func TestParseGarbageBeforeFrame(t *testing.T) {
	p := frame.NewParser()
	garbage := []byte{0xFF, 0xAA, 0x55}
	p.Feed(append(append([]byte{}, garbage...), pingFrameBytes(t)...))
	result, f, _ := p.Parse()
	if result != frame.OK || f.Cmd != frame.CmdPing {
		t.Fatalf("Parse() = (%v, %v), want (OK, PING)", result, f)
	}
}

func TestParseGarbageBetweenFrames(t *testing.T) {
	p := frame.NewParser()
	valid := pingFrameBytes(t)
	buf := append(append([]byte{}, valid...), 0xAA, 0xBB)
	buf = append(buf, valid...)
	p.Feed(buf)

	result1, f1, _ := p.Parse()
	if result1 != frame.OK || f1.Cmd != frame.CmdPing {
		t.Fatalf("first Parse() = (%v, %v), want (OK, PING)", result1, f1)
	}
	result2, f2, _ := p.Parse()
	if result2 != frame.OK || f2.Cmd != frame.CmdPing {
		t.Fatalf("second Parse() = (%v, %v), want (OK, PING)", result2, f2)
	}
}

func TestParseMultipleSTXRecovery(t *testing.T) {
	p := frame.NewParser()
	buf := append([]byte{frame.STX, frame.STX, frame.STX}, pingFrameBytes(t)...)
	p.Feed(buf)
	// Each spurious STX costs one FORMAT_ERROR or CRC_ERROR attempt. The
	// last one reads the frame's own STX as LEN=2 and waits for more bytes
	// than the buffer holds, so the frame is reached once more bytes arrive.
	fedMore := false
	for attempt := 0; attempt < 16; attempt++ {
		result, f, _ := p.Parse()
		switch result {
		case frame.OK:
			if f.Cmd != frame.CmdPing {
				t.Fatalf("Parse() = (%v, %v), want (OK, PING)", result, f)
			}
			return
		case frame.Incomplete:
			if fedMore {
				t.Fatalf("Parse() = INCOMPLETE after more bytes were fed, want (OK, PING)")
			}
			p.Feed(pingFrameBytes(t))
			fedMore = true
		}
	}
	t.Fatal("Parse() never recovered the frame behind repeated STX bytes")
}

func TestParseIncrementalFeed(t *testing.T) {
	full := pingFrameBytes(t)
	p := frame.NewParser()
	for i := 0; i < len(full)-1; i++ {
		p.Feed(full[i : i+1])
		result, f, _ := p.Parse()
		if result != frame.Incomplete || f != nil {
			t.Fatalf("Parse() after byte %d = (%v, %v), want INCOMPLETE", i, result, f)
		}
	}
	p.Feed(full[len(full)-1:])
	result, f, _ := p.Parse()
	if result != frame.OK || f.Cmd != frame.CmdPing {
		t.Fatalf("final Parse() = (%v, %v), want (OK, PING)", result, f)
	}
}

func TestParserClear(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x00, 0x01})
	if p.BufferSize() == 0 {
		t.Fatal("BufferSize() == 0 after Feed")
	}
	p.Clear()
	if p.BufferSize() != 0 {
		t.Errorf("BufferSize() = %d after Clear, want 0", p.BufferSize())
	}
}

func TestBufferSizeMonotonicity(t *testing.T) {
	p := frame.NewParser()
	prev := p.BufferSize()
	p.Feed([]byte{0xAA})
	if p.BufferSize() <= prev {
		t.Fatalf("BufferSize() did not increase after Feed")
	}
	prev = p.BufferSize()
	p.Feed(pingFrameBytes(t))
	if p.BufferSize() <= prev {
		t.Fatalf("BufferSize() did not increase after second Feed")
	}
	prev = p.BufferSize()
	result, _, _ := p.Parse()
	if result != frame.OK {
		t.Fatalf("Parse() = %v, want OK", result)
	}
	if p.BufferSize() >= prev {
		t.Fatalf("BufferSize() did not decrease after successful parse: before=%d after=%d", prev, p.BufferSize())
	}
}

func TestCRCErrorThenValidFrameRecovers(t *testing.T) {
	p := frame.NewParser()
	p.Feed([]byte{frame.STX, 0x00, byte(frame.CmdPing), 0xFF, frame.ETX})
	if result, _, _ := p.Parse(); result != frame.CRCErrorResult {
		t.Fatalf("Parse() = %v, want CRC_ERROR", result)
	}
	p.Feed(pingFrameBytes(t))
	result, f, _ := p.Parse()
	if result != frame.OK || f.Cmd != frame.CmdPing {
		t.Fatalf("Parse() after CRC_ERROR = (%v, %v), want (OK, PING)", result, f)
	}
}

func TestParseNAKResponse(t *testing.T) {
	payload := []byte{byte(frame.ErrUnknownCmd)}
	crcData := append([]byte{byte(len(payload)), byte(frame.RespNAK)}, payload...)
	crc := crc8.Calculate(crcData)
	buf := []byte{frame.STX, byte(len(payload)), byte(frame.RespNAK)}
	buf = append(buf, payload...)
	buf = append(buf, crc, frame.ETX)

	p := frame.NewParser()
	p.Feed(buf)
	result, f, _ := p.Parse()
	if result != frame.OK {
		t.Fatalf("Parse() = %v, want OK", result)
	}
	if f.Cmd != frame.Command(frame.RespNAK) {
		t.Fatalf("f.Cmd = %v, want NAK", f.Cmd)
	}
	if frame.ErrorCode(f.Payload[0]) != frame.ErrUnknownCmd {
		t.Fatalf("f.Payload[0] = %#02x, want UNKNOWN_CMD", f.Payload[0])
	}
}
