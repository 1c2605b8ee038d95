package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	opContinuation byte = 0x0
	opText         byte = 0x1
	opBinary       byte = 0x2
	opClose        byte = 0x8
	opPing         byte = 0x9
	opPong         byte = 0xA
)

const maxMessageSize = 1 << 16

var (
	ErrMessageTooLarge = errors.New("websocket message too large")
	ErrProtocol        = errors.New("websocket protocol error")
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	masked  bool
	opCode  byte
	length  uint64
	payload []byte
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; unused fields are omitted.
type Payload struct {
	SessionID string          `json:"session_id,omitempty"`
	Session   *entity.Session `json:"session,omitempty"`
	Players   []entity.Player `json:"players,omitempty"`
	Row       *int            `json:"row,omitempty"`
	Column    *int            `json:"column,omitempty"`
	Moved     *bool           `json:"moved,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func sendMessage(writer *bufio.Writer, action string, payload Payload) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{Action: action, Payload: rawPayload})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	f := frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(responseBytes)),
		payload: responseBytes,
	}

	if err = writeFrame(writer, f); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

func writeFrame(writer *bufio.Writer, frameData frame) error {
	buf := make([]byte, 2, 10+len(frameData.payload))
	buf[0] |= frameData.opCode

	if frameData.isFin {
		buf[0] |= 0x80
	}

	switch {
	case frameData.length < 126:
		buf[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		buf[1] |= 126
		buf = binary.BigEndian.AppendUint16(buf, uint16(frameData.length))
	default:
		buf[1] |= 127
		buf = binary.BigEndian.AppendUint64(buf, frameData.length)
	}

	buf = append(buf, frameData.payload...)

	if _, err := writer.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readMessage - reads client frames until a complete data message arrives.
// Pings are answered, pongs skipped, and a close frame is echoed and reported as io.EOF.
// Unmasked frames and out-of-order fragments fail with ErrProtocol.
func readMessage(bufrw *bufio.ReadWriter) ([]byte, error) {
	var (
		message    []byte
		fragmented bool
	)

	for {
		f, err := readFrame(bufrw.Reader)
		if err != nil {
			return nil, err
		}

		if !f.masked {
			return nil, fmt.Errorf("%w: unmasked client frame", ErrProtocol)
		}

		switch f.opCode {
		case opClose:
			_ = writeFrame(bufrw.Writer, frame{isFin: true, opCode: opClose, length: f.length, payload: f.payload})
			return nil, io.EOF
		case opPing:
			if err = writeFrame(bufrw.Writer, frame{isFin: true, opCode: opPong, length: f.length, payload: f.payload}); err != nil {
				return nil, err
			}
			continue
		case opPong:
			continue
		case opText, opBinary:
			if fragmented {
				return nil, fmt.Errorf("%w: new message inside a fragmented one", ErrProtocol)
			}
			message = f.payload
		case opContinuation:
			if !fragmented {
				return nil, fmt.Errorf("%w: continuation without a fragmented message", ErrProtocol)
			}
			message = append(message, f.payload...)
		default:
			return nil, fmt.Errorf("unsupported opcode %d", f.opCode)
		}

		if len(message) > maxMessageSize {
			return nil, ErrMessageTooLarge
		}

		if f.isFin {
			return message, nil
		}

		fragmented = true
	}
}

func readFrame(reader *bufio.Reader) (frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(reader, header); err != nil {
		return frame{}, fmt.Errorf("failed to read header: %w", err)
	}

	maskBit := header[1] >> 7

	f := frame{
		isFin:  header[0]>>7 == 1,
		masked: maskBit == 1,
		opCode: header[0] & 0x0f,
	}

	size, err := readPayloadLength(reader, header[1]&0x7f)
	if err != nil {
		return frame{}, err
	}

	if size > maxMessageSize {
		return frame{}, ErrMessageTooLarge
	}

	mask, err := readMask(reader, maskBit)
	if err != nil {
		return frame{}, err
	}

	f.length = size
	f.payload, err = readData(reader, size, mask)
	if err != nil {
		return frame{}, err
	}

	return f, nil
}

func readPayloadLength(reader *bufio.Reader, payloadLen byte) (uint64, error) {
	switch payloadLen {
	case 126:
		length := make([]byte, 2)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return uint64(binary.BigEndian.Uint16(length)), nil
	case 127:
		length := make([]byte, 8)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return binary.BigEndian.Uint64(length), nil
	default:
		return uint64(payloadLen), nil
	}
}

func readMask(reader *bufio.Reader, maskBit byte) ([]byte, error) {
	if maskBit == 0 {
		return nil, nil
	}

	mask := make([]byte, 4)
	if _, err := io.ReadFull(reader, mask); err != nil {
		return nil, fmt.Errorf("failed to read mask: %w", err)
	}

	return mask, nil
}

func readData(reader *bufio.Reader, size uint64, mask []byte) ([]byte, error) {
	payload := make([]byte, size)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}
