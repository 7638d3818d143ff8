package p2p

import (
	"encoding/binary"
	"time"

	"github.com/karpathy/cryptos-go/internal/block"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// ProtocolVersion is the version number this client advertises.
const ProtocolVersion = 70015

func encodeVarint(v uint64) []byte {
	switch {
	case v < 0xfd:
		return []byte{byte(v)}
	case v <= 0xffff:
		return []byte{0xfd, byte(v), byte(v >> 8)}
	case v <= 0xffffffff:
		return []byte{0xfe, byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	default:
		out := make([]byte, 9)
		out[0] = 0xff
		for i := 0; i < 8; i++ {
			out[1+i] = byte(v >> (8 * i))
		}
		return out
	}
}

func readVarint(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, coreerr.ErrBadVarint
	}
	switch {
	case b[0] < 0xfd:
		return uint64(b[0]), 1, nil
	case b[0] == 0xfd:
		if len(b) < 3 {
			return 0, 0, coreerr.ErrTruncated
		}
		return uint64(binary.LittleEndian.Uint16(b[1:3])), 3, nil
	case b[0] == 0xfe:
		if len(b) < 5 {
			return 0, 0, coreerr.ErrTruncated
		}
		return uint64(binary.LittleEndian.Uint32(b[1:5])), 5, nil
	default:
		if len(b) < 9 {
			return 0, 0, coreerr.ErrTruncated
		}
		return binary.LittleEndian.Uint64(b[1:9]), 9, nil
	}
}

// netAddr is the pared-down (no time field, IPv4-mapped) network address
// format version messages embed twice: addr_recv and addr_from.
func netAddr() []byte {
	out := make([]byte, 0, 26)
	var services [8]byte
	out = append(out, services[:]...)

	ip := make([]byte, 16)
	ip[10], ip[11] = 0xff, 0xff // IPv4-mapped IPv6 prefix
	out = append(out, ip...)

	var port [2]byte
	binary.BigEndian.PutUint16(port[:], 8333)
	out = append(out, port[:]...)
	return out
}

// VersionMessage is the payload of the first message each peer sends.
type VersionMessage struct {
	Version     int32
	Services    uint64
	Timestamp   int64
	UserAgent   string
	StartHeight int32
}

// Encode serializes the version message payload.
func (v VersionMessage) Encode() []byte {
	var out []byte

	var version [4]byte
	binary.LittleEndian.PutUint32(version[:], uint32(v.Version))
	out = append(out, version[:]...)

	var services [8]byte
	binary.LittleEndian.PutUint64(services[:], v.Services)
	out = append(out, services[:]...)

	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(v.Timestamp))
	out = append(out, ts[:]...)

	out = append(out, netAddr()...) // addr_recv
	out = append(out, netAddr()...) // addr_from

	var nonce [8]byte
	out = append(out, nonce[:]...)

	out = append(out, encodeVarint(uint64(len(v.UserAgent)))...)
	out = append(out, []byte(v.UserAgent)...)

	var startHeight [4]byte
	binary.LittleEndian.PutUint32(startHeight[:], uint32(v.StartHeight))
	out = append(out, startHeight[:]...)

	out = append(out, 0x00) // relay flag: false

	return out
}

// NewVersionMessage builds the version payload this client sends,
// stamping the current wall-clock time.
func NewVersionMessage(userAgent string) VersionMessage {
	return VersionMessage{
		Version:     ProtocolVersion,
		Services:    0,
		Timestamp:   time.Now().Unix(),
		UserAgent:   userAgent,
		StartHeight: 0,
	}
}

// PingPongMessage carries the 8-byte nonce ping and pong frames echo.
type PingPongMessage struct {
	Nonce uint64
}

// Encode serializes the ping/pong payload.
func (p PingPongMessage) Encode() []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], p.Nonce)
	return out[:]
}

// ParsePingPong decodes an 8-byte ping/pong payload.
func ParsePingPong(b []byte) (PingPongMessage, error) {
	if len(b) != 8 {
		return PingPongMessage{}, coreerr.ErrTruncated
	}
	return PingPongMessage{Nonce: binary.LittleEndian.Uint64(b)}, nil
}

// GetHeadersMessage requests headers starting after StartBlock.
type GetHeadersMessage struct {
	Version    uint32
	StartBlock [32]byte // internal byte order
	EndBlock   [32]byte // all zero means "as many as possible"
}

// Encode serializes the getheaders payload: version, a 1-entry block
// locator hash list, and a stop hash.
func (g GetHeadersMessage) Encode() []byte {
	var out []byte

	var version [4]byte
	binary.LittleEndian.PutUint32(version[:], g.Version)
	out = append(out, version[:]...)

	out = append(out, encodeVarint(1)...)
	out = append(out, g.StartBlock[:]...)
	out = append(out, g.EndBlock[:]...)

	return out
}

// NewGetHeadersMessage builds a getheaders request from startBlock.
func NewGetHeadersMessage(startBlock [32]byte) GetHeadersMessage {
	return GetHeadersMessage{Version: ProtocolVersion, StartBlock: startBlock}
}

// ParseHeaders decodes a headers message payload: up to 2000 block headers,
// each followed by a 0x00 tx-count byte this function strips.
func ParseHeaders(b []byte) ([]block.Header, error) {
	count, n, err := readVarint(b)
	if err != nil {
		return nil, err
	}
	b = b[n:]

	headers := make([]block.Header, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(b) < block.HeaderSize+1 {
			return nil, coreerr.ErrTruncated
		}
		h, err := block.Parse(b[:block.HeaderSize])
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)

		if b[block.HeaderSize] != 0x00 {
			return nil, coreerr.ErrUnexpectedMessage
		}
		b = b[block.HeaderSize+1:]
	}

	return headers, nil
}
