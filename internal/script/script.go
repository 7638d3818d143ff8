// Package script implements the minimal Bitcoin script byte encoding and
// stack VM required to validate P2PKH inputs.
package script

import (
	"math/big"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	"github.com/karpathy/cryptos-go/internal/ecdsa"
	"github.com/karpathy/cryptos-go/internal/keys"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// Opcodes this core's VM understands. Anything else is rejected.
const (
	OpZero         = 0x00
	OpPushData1    = 0x4c
	OpPushData2    = 0x4d
	OpPushData4    = 0x4e
	Op1Negate      = 0x4f
	Op1            = 0x51
	Op16           = 0x60
	OpDup          = 0x76
	OpHash160      = 0xa9
	OpEqualVerify  = 0x88
	OpCheckSig     = 0xac
	SighashAll     = 0x01
)

// Command is a single script operation: either a data push (Data non-nil)
// or an opcode.
type Command struct {
	Op   int
	Data []byte
}

// PushCommand returns a data-push command.
func PushCommand(data []byte) Command { return Command{Op: -1, Data: data} }

// OpCommand returns an opcode command.
func OpCommand(op int) Command { return Command{Op: op} }

func (c Command) isPush() bool { return c.Op == -1 }

// Script is an ordered sequence of commands.
type Script struct {
	Commands []Command
}

// readVarint reads Bitcoin's variable-length unsigned integer from b,
// returning the value and the number of bytes consumed.
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
		return uint64(b[1]) | uint64(b[2])<<8, 3, nil
	case b[0] == 0xfe:
		if len(b) < 5 {
			return 0, 0, coreerr.ErrTruncated
		}
		v := uint64(0)
		for i := 0; i < 4; i++ {
			v |= uint64(b[1+i]) << (8 * i)
		}
		return v, 5, nil
	default:
		if len(b) < 9 {
			return 0, 0, coreerr.ErrTruncated
		}
		v := uint64(0)
		for i := 0; i < 8; i++ {
			v |= uint64(b[1+i]) << (8 * i)
		}
		return v, 9, nil
	}
}

// EncodeVarint encodes v in Bitcoin's variable-length integer format.
func EncodeVarint(v uint64) []byte {
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

// Parse decodes a length-prefixed script body.
func Parse(b []byte) (Script, error) {
	total, n, err := readVarint(b)
	if err != nil {
		return Script{}, err
	}
	b = b[n:]
	if uint64(len(b)) < total {
		return Script{}, coreerr.ErrTruncated
	}
	body := b[:total]

	var cmds []Command
	for len(body) > 0 {
		opcode := int(body[0])
		body = body[1:]

		switch {
		case opcode >= 1 && opcode <= 0x4b:
			if len(body) < opcode {
				return Script{}, coreerr.ErrInvalidScript
			}
			cmds = append(cmds, PushCommand(body[:opcode]))
			body = body[opcode:]

		case opcode == OpPushData1:
			if len(body) < 1 {
				return Script{}, coreerr.ErrInvalidScript
			}
			n := int(body[0])
			body = body[1:]
			if len(body) < n {
				return Script{}, coreerr.ErrInvalidScript
			}
			cmds = append(cmds, PushCommand(body[:n]))
			body = body[n:]

		case opcode == OpPushData2:
			if len(body) < 2 {
				return Script{}, coreerr.ErrInvalidScript
			}
			n := int(body[0]) | int(body[1])<<8
			body = body[2:]
			if len(body) < n {
				return Script{}, coreerr.ErrInvalidScript
			}
			cmds = append(cmds, PushCommand(body[:n]))
			body = body[n:]

		case opcode == OpPushData4:
			if len(body) < 4 {
				return Script{}, coreerr.ErrInvalidScript
			}
			n := int(body[0]) | int(body[1])<<8 | int(body[2])<<16 | int(body[3])<<24
			body = body[4:]
			if len(body) < n {
				return Script{}, coreerr.ErrInvalidScript
			}
			cmds = append(cmds, PushCommand(body[:n]))
			body = body[n:]

		default:
			cmds = append(cmds, OpCommand(opcode))
		}
	}

	return Script{Commands: cmds}, nil
}

// rawBody serializes the script's commands without the outer varint
// length prefix.
func (s Script) rawBody() []byte {
	var out []byte
	for _, c := range s.Commands {
		if c.isPush() {
			n := len(c.Data)
			switch {
			case n <= 0x4b:
				out = append(out, byte(n))
			case n <= 0xff:
				out = append(out, OpPushData1, byte(n))
			case n <= 0xffff:
				out = append(out, OpPushData2, byte(n), byte(n>>8))
			default:
				out = append(out, OpPushData4, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
			}
			out = append(out, c.Data...)
		} else {
			out = append(out, byte(c.Op))
		}
	}
	return out
}

// Serialize is the inverse of Parse: a varint length prefix followed by
// the encoded command stream.
func (s Script) Serialize() []byte {
	body := s.rawBody()
	return append(EncodeVarint(uint64(len(body))), body...)
}

// Combine concatenates script_sig commands followed by script_pubkey
// commands, the single stream the VM executes.
func Combine(scriptSig, scriptPubkey Script) Script {
	cmds := make([]Command, 0, len(scriptSig.Commands)+len(scriptPubkey.Commands))
	cmds = append(cmds, scriptSig.Commands...)
	cmds = append(cmds, scriptPubkey.Commands...)
	return Script{Commands: cmds}
}

func isTruthy(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}

// Evaluate executes the combined script against sighash digest z, for
// OP_CHECKSIG to verify a signature over. It returns whether the script
// succeeds — per §7, a script failure is a false result, not an error.
func Evaluate(combined Script, z *big.Int) bool {
	var stack [][]byte

	pop := func() ([]byte, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, true
	}

	for _, cmd := range combined.Commands {
		if cmd.isPush() {
			stack = append(stack, cmd.Data)
			continue
		}

		switch cmd.Op {
		case OpZero:
			stack = append(stack, []byte{})

		case OpDup:
			if len(stack) == 0 {
				return false
			}
			stack = append(stack, stack[len(stack)-1])

		case OpHash160:
			top, ok := pop()
			if !ok {
				return false
			}
			stack = append(stack, bitcoinhash.Hash160(top))

		case OpEqualVerify:
			a, ok1 := pop()
			b, ok2 := pop()
			if !ok1 || !ok2 {
				return false
			}
			if !bytesEqual(a, b) {
				return false
			}

		case OpCheckSig:
			pubBytes, ok1 := pop()
			sigBytes, ok2 := pop()
			if !ok1 || !ok2 {
				return false
			}
			if !checkSig(pubBytes, sigBytes, z) {
				stack = append(stack, []byte{})
			} else {
				stack = append(stack, []byte{0x01})
			}

		default:
			if cmd.Op >= Op1 && cmd.Op <= Op16 {
				stack = append(stack, []byte{byte(cmd.Op - Op1 + 1)})
				continue
			}
			return false
		}
	}

	if len(stack) == 0 {
		return false
	}
	return isTruthy(stack[len(stack)-1])
}

func checkSig(pubBytes, sigBytes []byte, z *big.Int) bool {
	if len(sigBytes) == 0 {
		return false
	}
	sighashType := sigBytes[len(sigBytes)-1]
	if sighashType != SighashAll {
		return false
	}
	der := sigBytes[:len(sigBytes)-1]

	sig, err := ecdsa.ParseDER(der)
	if err != nil {
		return false
	}

	pub, err := keys.ParseSEC(pubBytes)
	if err != nil {
		return false
	}

	return ecdsa.Verify(pub, z, sig)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
