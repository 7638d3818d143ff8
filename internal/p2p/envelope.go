// Package p2p implements a minimal Bitcoin peer-to-peer client: message
// framing, version handshake, ping/pong, and a header-walk loop.
package p2p

import (
	"encoding/binary"
	"io"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// Network magic bytes identifying mainnet and testnet peers.
const (
	MagicMainnet uint32 = 0xD9B4BEF9 // wire bytes 0xF9 0xBE 0xB4 0xD9, little-endian as a uint32
	MagicTestnet uint32 = 0x0709110B // wire bytes 0x0B 0x11 0x09 0x07, little-endian as a uint32
)

const commandSize = 12

// Envelope is one length-prefixed, checksummed P2P message frame.
type Envelope struct {
	Magic   uint32
	Command string
	Payload []byte
}

// Encode serializes the envelope to wire bytes: magic(4) ‖ command(12,
// NUL-padded) ‖ payload_len(4 LE) ‖ checksum(4) ‖ payload.
func (e Envelope) Encode() []byte {
	out := make([]byte, 4, 4+commandSize+4+4+len(e.Payload))
	binary.LittleEndian.PutUint32(out[0:4], e.Magic)

	var cmd [commandSize]byte
	copy(cmd[:], e.Command)
	out = append(out, cmd[:]...)

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(e.Payload)))
	out = append(out, length[:]...)

	checksum := bitcoinhash.Hash256(e.Payload)[:4]
	out = append(out, checksum...)
	out = append(out, e.Payload...)
	return out
}

// ReadEnvelope reads one framed message from r, verifying its checksum.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	header := make([]byte, 4+commandSize+4+4)
	if _, err := io.ReadFull(r, header); err != nil {
		return Envelope{}, coreerr.Wrap(err, "reading envelope header")
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	cmdBytes := header[4 : 4+commandSize]
	command := string(trimNulls(cmdBytes))
	length := binary.LittleEndian.Uint32(header[16:20])
	checksum := header[20:24]

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Envelope{}, coreerr.Wrap(err, "reading envelope payload")
		}
	}

	want := bitcoinhash.Hash256(payload)[:4]
	for i := range checksum {
		if checksum[i] != want[i] {
			return Envelope{}, coreerr.ErrChecksumMismatch
		}
	}

	return Envelope{Magic: magic, Command: command, Payload: payload}, nil
}

func trimNulls(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return b[:i]
}
