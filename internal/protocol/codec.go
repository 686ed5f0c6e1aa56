package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// lengthPrefixSize is the size of the frame length prefix in bytes.
	lengthPrefixSize = 4

	// MaxFrameSize is the largest payload the codec accepts. A length
	// prefix beyond this indicates a corrupt or desynchronized stream.
	MaxFrameSize = 4 << 20
)

// ErrFrameTooLarge is returned when a length prefix exceeds
// MaxFrameSize. The stream cannot be resynchronized after this.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ErrMalformedPayload is returned when a complete frame's payload
// cannot be parsed.
var ErrMalformedPayload = errors.New("malformed frame payload")

// Encode serializes a message into one length-prefixed frame, stamping
// the protocol version.
func Encode(msg *Message) ([]byte, error) {
	msg.Version = Version
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if len(payload) > MaxFrameSize {
		return nil, fmt.Errorf("encode message: %w (%d bytes)", ErrFrameTooLarge, len(payload))
	}
	frame := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[lengthPrefixSize:], payload)
	return frame, nil
}

// Decoder reassembles frames from a byte stream. Bytes arrive via Feed
// in arbitrary chunks; Next yields complete messages in arrival order.
// Partial frames are buffered across calls, so chunk boundaries never
// affect the decoded sequence.
//
// Decoder is not safe for concurrent use; the receive loop is its only
// caller.
type Decoder struct {
	buf bytes.Buffer
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends raw bytes read from the transport.
func (d *Decoder) Feed(p []byte) {
	d.buf.Write(p)
}

// Next returns the next complete message, or (nil, nil) when the
// buffered bytes do not yet form a whole frame. A non-nil error means
// the stream is unrecoverable: either the length prefix is implausible
// (ErrFrameTooLarge) or the payload did not parse (ErrMalformedPayload).
func (d *Decoder) Next() (*Message, error) {
	if d.buf.Len() < lengthPrefixSize {
		return nil, nil
	}
	length := binary.BigEndian.Uint32(d.buf.Bytes()[:lengthPrefixSize])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("decode frame: %w (prefix %d)", ErrFrameTooLarge, length)
	}
	if d.buf.Len() < lengthPrefixSize+int(length) {
		return nil, nil
	}

	frame := d.buf.Next(lengthPrefixSize + int(length))
	payload := frame[lengthPrefixSize:]

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode frame: %w: %v", ErrMalformedPayload, err)
	}
	return &msg, nil
}

// Buffered returns the number of bytes waiting for frame completion.
func (d *Decoder) Buffered() int {
	return d.buf.Len()
}
