// Package txn implements Bitcoin transaction parsing, serialization,
// legacy sighash computation, and P2PKH input validation.
package txn

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	"github.com/karpathy/cryptos-go/internal/script"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// SighashAll is the only sighash type this core signs and validates.
const SighashAll uint32 = 0x00000001

// TxIn is one transaction input.
type TxIn struct {
	PrevTx    [32]byte // internal byte order, as read off the wire
	PrevIndex uint32
	ScriptSig script.Script
	Sequence  uint32
	Witness   [][]byte // non-nil only for SegWit transactions
}

// TxOut is one transaction output.
type TxOut struct {
	Amount       int64
	ScriptPubkey script.Script
}

// Transaction is a parsed Bitcoin transaction, legacy or SegWit.
type Transaction struct {
	Version  uint32
	TxIns    []TxIn
	TxOuts   []TxOut
	Locktime uint32
	Segwit   bool
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

func encodeVarint(v uint64) []byte {
	return script.EncodeVarint(v)
}

// Parse decodes a transaction from its wire bytes, detecting the SegWit
// marker/flag pair (0x00 0x01) immediately after the version field.
func Parse(b []byte) (Transaction, error) {
	if len(b) < 4 {
		return Transaction{}, coreerr.ErrTruncated
	}
	tx := Transaction{Version: binary.LittleEndian.Uint32(b[0:4])}
	b = b[4:]

	if len(b) >= 2 && b[0] == 0x00 && b[1] == 0x01 {
		tx.Segwit = true
		b = b[2:]
	}

	nIn, n, err := readVarint(b)
	if err != nil {
		return Transaction{}, err
	}
	b = b[n:]

	tx.TxIns = make([]TxIn, nIn)
	for i := range tx.TxIns {
		in, consumed, err := parseTxIn(b)
		if err != nil {
			return Transaction{}, err
		}
		tx.TxIns[i] = in
		b = b[consumed:]
	}

	nOut, n, err := readVarint(b)
	if err != nil {
		return Transaction{}, err
	}
	b = b[n:]

	tx.TxOuts = make([]TxOut, nOut)
	for i := range tx.TxOuts {
		out, consumed, err := parseTxOut(b)
		if err != nil {
			return Transaction{}, err
		}
		tx.TxOuts[i] = out
		b = b[consumed:]
	}

	if tx.Segwit {
		for i := range tx.TxIns {
			count, n, err := readVarint(b)
			if err != nil {
				return Transaction{}, err
			}
			b = b[n:]

			witness := make([][]byte, count)
			for w := range witness {
				itemLen, n, err := readVarint(b)
				if err != nil {
					return Transaction{}, err
				}
				b = b[n:]
				if uint64(len(b)) < itemLen {
					return Transaction{}, coreerr.ErrTruncated
				}
				witness[w] = append([]byte{}, b[:itemLen]...)
				b = b[itemLen:]
			}
			tx.TxIns[i].Witness = witness
		}
	}

	if len(b) < 4 {
		return Transaction{}, coreerr.ErrTruncated
	}
	tx.Locktime = binary.LittleEndian.Uint32(b[0:4])

	return tx, nil
}

func parseTxIn(b []byte) (TxIn, int, error) {
	if len(b) < 36 {
		return TxIn{}, 0, coreerr.ErrTruncated
	}
	var in TxIn
	copy(in.PrevTx[:], b[0:32])
	in.PrevIndex = binary.LittleEndian.Uint32(b[32:36])
	offset := 36

	sigScript, err := script.Parse(b[offset:])
	if err != nil {
		return TxIn{}, 0, err
	}
	in.ScriptSig = sigScript
	offset += len(sigScript.Serialize())

	if len(b) < offset+4 {
		return TxIn{}, 0, coreerr.ErrTruncated
	}
	in.Sequence = binary.LittleEndian.Uint32(b[offset : offset+4])
	offset += 4

	return in, offset, nil
}

func parseTxOut(b []byte) (TxOut, int, error) {
	if len(b) < 8 {
		return TxOut{}, 0, coreerr.ErrTruncated
	}
	var out TxOut
	out.Amount = int64(binary.LittleEndian.Uint64(b[0:8]))
	offset := 8

	pubkeyScript, err := script.Parse(b[offset:])
	if err != nil {
		return TxOut{}, 0, err
	}
	out.ScriptPubkey = pubkeyScript
	offset += len(pubkeyScript.Serialize())

	return out, offset, nil
}

// Serialize encodes the transaction to wire bytes. If tx.Segwit is set,
// the SegWit marker/flag and per-input witness data are included; use
// SerializeLegacy to force the pre-SegWit form.
func (tx Transaction) Serialize() []byte {
	if tx.Segwit {
		return tx.serialize(true)
	}
	return tx.serialize(false)
}

// SerializeLegacy always omits the SegWit marker/flag/witness bytes,
// the form used for txid and legacy sighash regardless of tx.Segwit.
func (tx Transaction) SerializeLegacy() []byte {
	return tx.serialize(false)
}

func (tx Transaction) serialize(includeWitness bool) []byte {
	var out []byte

	var versionBytes [4]byte
	binary.LittleEndian.PutUint32(versionBytes[:], tx.Version)
	out = append(out, versionBytes[:]...)

	if includeWitness {
		out = append(out, 0x00, 0x01)
	}

	out = append(out, encodeVarint(uint64(len(tx.TxIns)))...)
	for _, in := range tx.TxIns {
		out = append(out, in.PrevTx[:]...)
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], in.PrevIndex)
		out = append(out, idx[:]...)
		out = append(out, in.ScriptSig.Serialize()...)
		var seq [4]byte
		binary.LittleEndian.PutUint32(seq[:], in.Sequence)
		out = append(out, seq[:]...)
	}

	out = append(out, encodeVarint(uint64(len(tx.TxOuts)))...)
	for _, o := range tx.TxOuts {
		var amt [8]byte
		binary.LittleEndian.PutUint64(amt[:], uint64(o.Amount))
		out = append(out, amt[:]...)
		out = append(out, o.ScriptPubkey.Serialize()...)
	}

	if includeWitness {
		for _, in := range tx.TxIns {
			out = append(out, encodeVarint(uint64(len(in.Witness)))...)
			for _, item := range in.Witness {
				out = append(out, encodeVarint(uint64(len(item)))...)
				out = append(out, item...)
			}
		}
	}

	var lt [4]byte
	binary.LittleEndian.PutUint32(lt[:], tx.Locktime)
	out = append(out, lt[:]...)

	return out
}

// ID returns the transaction's txid: HASH256 of the legacy serialization,
// displayed as big-endian hex (the wire/internal order is little-endian).
func (tx Transaction) ID() string {
	h := bitcoinhash.Hash256(tx.SerializeLegacy())
	reversed := make([]byte, len(h))
	for i, b := range h {
		reversed[len(h)-1-i] = b
	}
	return hex.EncodeToString(reversed)
}

// SighashAllDigest builds the legacy SIGHASH_ALL digest for input i signing
// against fundingScriptPubkey, by walking a transient copy rather than
// mutating and restoring the live transaction.
func (tx Transaction) SighashAllDigest(inputIndex int, fundingScriptPubkey script.Script) (*big.Int, error) {
	if inputIndex < 0 || inputIndex >= len(tx.TxIns) {
		return nil, coreerr.ErrNotFound
	}

	transient := Transaction{
		Version:  tx.Version,
		Locktime: tx.Locktime,
		TxOuts:   tx.TxOuts,
	}
	transient.TxIns = make([]TxIn, len(tx.TxIns))
	for i, in := range tx.TxIns {
		emptied := TxIn{
			PrevTx:    in.PrevTx,
			PrevIndex: in.PrevIndex,
			Sequence:  in.Sequence,
		}
		if i == inputIndex {
			emptied.ScriptSig = fundingScriptPubkey
		}
		transient.TxIns[i] = emptied
	}

	body := transient.SerializeLegacy()

	var sighashType [4]byte
	binary.LittleEndian.PutUint32(sighashType[:], SighashAll)
	body = append(body, sighashType[:]...)

	digest := bitcoinhash.Hash256(body)
	return new(big.Int).SetBytes(digest), nil
}

// PrevTxFetcher resolves a previous transaction by its hex-encoded txid,
// the external I/O dependency Validate needs to look up funding outputs.
type PrevTxFetcher interface {
	Fetch(txidHex string) (Transaction, error)
}

// Validate checks every P2PKH input of tx against its funding output,
// fetched through prevTx.
func (tx Transaction) Validate(prevTx PrevTxFetcher) (bool, error) {
	for i, in := range tx.TxIns {
		prevTxidHex := reverseHex(in.PrevTx[:])

		funding, err := prevTx.Fetch(prevTxidHex)
		if err != nil {
			return false, err
		}
		if int(in.PrevIndex) >= len(funding.TxOuts) {
			return false, coreerr.ErrNotFound
		}
		fundingOut := funding.TxOuts[in.PrevIndex]

		z, err := tx.SighashAllDigest(i, fundingOut.ScriptPubkey)
		if err != nil {
			return false, err
		}

		combined := script.Combine(in.ScriptSig, fundingOut.ScriptPubkey)
		if !script.Evaluate(combined, z) {
			return false, nil
		}
	}
	return true, nil
}

func reverseHex(b []byte) string {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return hex.EncodeToString(reversed)
}
