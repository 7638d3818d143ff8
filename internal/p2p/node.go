package p2p

import (
	"context"
	"encoding/hex"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/karpathy/cryptos-go/internal/block"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// headerRequestInterval bounds how often WalkHeaders may issue a fresh
// getheaders request, so a runaway loop can't hammer a seed node.
const headerRequestInterval = 200 * time.Millisecond

// Node owns a single blocking TCP connection to one peer and performs the
// version handshake, ping/pong auto-reply, and header-walk loop over it.
type Node struct {
	conn    net.Conn
	magic   uint32
	limiter *rate.Limiter
}

// Dial connects to addr and returns an unhandshaken Node. The caller is
// responsible for calling Handshake before sending any other message.
func Dial(ctx context.Context, addr string, magic uint32) (*Node, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, coreerr.Wrap(err, "dialing peer %s", addr)
	}

	return &Node{
		conn:  conn,
		magic: magic,
		// At most one getheaders request per headerRequestInterval: a runaway
		// header-walk loop should not be able to hammer a seed node.
		limiter: rate.NewLimiter(rate.Every(headerRequestInterval), 1),
	}, nil
}

// Close closes the underlying connection, causing any in-flight read to
// fail; this is the node's only cancellation mechanism.
func (n *Node) Close() error {
	return n.conn.Close()
}

func (n *Node) send(command string, payload []byte) error {
	env := Envelope{Magic: n.magic, Command: command, Payload: payload}
	_, err := n.conn.Write(env.Encode())
	if err != nil {
		return coreerr.Wrap(err, "writing %s message", command)
	}
	return nil
}

func (n *Node) recv() (Envelope, error) {
	env, err := ReadEnvelope(n.conn)
	if err != nil {
		return Envelope{}, err
	}
	if env.Magic != n.magic {
		return Envelope{}, coreerr.ErrBadMagic
	}
	return env, nil
}

// WaitFor drains frames until one with the given command arrives,
// transparently answering any interleaved ping with a pong.
func (n *Node) WaitFor(command string) (Envelope, error) {
	for {
		env, err := n.recv()
		if err != nil {
			return Envelope{}, err
		}

		if env.Command == "ping" {
			ping, err := ParsePingPong(env.Payload)
			if err != nil {
				return Envelope{}, err
			}
			if err := n.send("pong", PingPongMessage{Nonce: ping.Nonce}.Encode()); err != nil {
				return Envelope{}, err
			}
			continue
		}

		if env.Command != command {
			continue
		}
		return env, nil
	}
}

// Handshake performs the version/verack exchange.
func (n *Node) Handshake(userAgent string) error {
	version := NewVersionMessage(userAgent)
	if err := n.send("version", version.Encode()); err != nil {
		return err
	}

	if _, err := n.WaitFor("version"); err != nil {
		return coreerr.Wrap(err, "waiting for peer version")
	}

	if err := n.send("verack", nil); err != nil {
		return err
	}

	if _, err := n.WaitFor("verack"); err != nil {
		return coreerr.Wrap(err, "waiting for peer verack")
	}

	return nil
}

// FetchHeaders sends one getheaders request starting at startBlock, rate
// limited to one request per headerRequestInterval, and returns the peer's
// header batch (up to 2000 entries).
func (n *Node) FetchHeaders(ctx context.Context, startBlock [32]byte) ([]block.Header, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, coreerr.Wrap(err, "rate limiting getheaders")
	}

	req := NewGetHeadersMessage(startBlock)
	if err := n.send("getheaders", req.Encode()); err != nil {
		return nil, err
	}

	env, err := n.WaitFor("headers")
	if err != nil {
		return nil, err
	}

	return ParseHeaders(env.Payload)
}

// WalkHeaders fetches headers repeatedly starting from an all-zero start
// hash, up to count headers, validating that each header's prev_block links
// to the previous header's id. The first header returned has no predecessor
// in the walk, so its prev_block is not checked.
func (n *Node) WalkHeaders(ctx context.Context, count int) ([]block.Header, error) {
	var all []block.Header
	var cursor [32]byte // zero value: genesis's prev_block is 32 zero bytes

	for len(all) < count {
		batch, err := n.FetchHeaders(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, h := range batch {
			if len(all) > 0 && h.PrevBlock != cursor {
				return nil, coreerr.Wrap(coreerr.ErrUnexpectedMessage, "header %d does not link to the previous header", len(all))
			}
			idBytes, err := hexReverse(h.ID())
			if err != nil {
				return nil, err
			}
			copy(cursor[:], idBytes)
			all = append(all, h)
		}
	}

	if len(all) > count {
		all = all[:count]
	}
	return all, nil
}

// hexReverse decodes a big-endian-displayed hex id back into its internal
// (little-endian) byte order.
func hexReverse(idHex string) ([]byte, error) {
	raw, err := hex.DecodeString(idHex)
	if err != nil {
		return nil, coreerr.Wrap(err, "decoding header id")
	}
	reversed := make([]byte, len(raw))
	for i, b := range raw {
		reversed[len(raw)-1-i] = b
	}
	return reversed, nil
}
