package script_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	"github.com/karpathy/cryptos-go/internal/ecdsa"
	"github.com/karpathy/cryptos-go/internal/keys"
	"github.com/karpathy/cryptos-go/internal/script"
)

func p2pkhPubkeyScript(hash160 []byte) script.Script {
	return script.Script{Commands: []script.Command{
		script.OpCommand(script.OpDup),
		script.OpCommand(script.OpHash160),
		script.PushCommand(hash160),
		script.OpCommand(script.OpEqualVerify),
		script.OpCommand(script.OpCheckSig),
	}}
}

func TestScript_SerializeParseRoundTrip(t *testing.T) {
	t.Parallel()
	s := p2pkhPubkeyScript(make([]byte, 20))
	serialized := s.Serialize()

	parsed, err := script.Parse(serialized)
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestScript_P2PKHEvaluatesTrue(t *testing.T) {
	t.Parallel()
	pk, err := keys.GenerateFromOSRandom()
	require.NoError(t, err)
	pub := pk.PublicKey()
	secCompressed := pub.SEC(true)
	h160 := bitcoinhash.Hash160(secCompressed)

	z := big.NewInt(0x1234)
	sig := ecdsa.Sign(pk, z)
	sigBytes := append(sig.DER(), script.SighashAll)

	scriptSig := script.Script{Commands: []script.Command{
		script.PushCommand(sigBytes),
		script.PushCommand(secCompressed),
	}}
	scriptPubkey := p2pkhPubkeyScript(h160)

	combined := script.Combine(scriptSig, scriptPubkey)
	assert.True(t, script.Evaluate(combined, z))
}

func TestScript_P2PKHWrongHashFails(t *testing.T) {
	t.Parallel()
	pk, err := keys.GenerateFromOSRandom()
	require.NoError(t, err)
	pub := pk.PublicKey()
	secCompressed := pub.SEC(true)

	z := big.NewInt(0x1234)
	sig := ecdsa.Sign(pk, z)
	sigBytes := append(sig.DER(), script.SighashAll)

	scriptSig := script.Script{Commands: []script.Command{
		script.PushCommand(sigBytes),
		script.PushCommand(secCompressed),
	}}
	scriptPubkey := p2pkhPubkeyScript(make([]byte, 20))

	combined := script.Combine(scriptSig, scriptPubkey)
	assert.False(t, script.Evaluate(combined, z))
}

func TestScript_MutatedSignatureFails(t *testing.T) {
	t.Parallel()
	pk, err := keys.GenerateFromOSRandom()
	require.NoError(t, err)
	pub := pk.PublicKey()
	secCompressed := pub.SEC(true)
	h160 := bitcoinhash.Hash160(secCompressed)

	z := big.NewInt(0x1234)
	sig := ecdsa.Sign(pk, z)
	sigBytes := append(sig.DER(), script.SighashAll)
	sigBytes[5] ^= 0xff

	scriptSig := script.Script{Commands: []script.Command{
		script.PushCommand(sigBytes),
		script.PushCommand(secCompressed),
	}}
	scriptPubkey := p2pkhPubkeyScript(h160)

	combined := script.Combine(scriptSig, scriptPubkey)
	assert.False(t, script.Evaluate(combined, z))
}

func TestScript_EmptyStackFails(t *testing.T) {
	t.Parallel()
	combined := script.Script{Commands: []script.Command{script.OpCommand(script.OpDup)}}
	assert.False(t, script.Evaluate(combined, big.NewInt(0)))
}

func TestScript_OpN(t *testing.T) {
	t.Parallel()
	s := script.Script{Commands: []script.Command{script.OpCommand(script.Op1 + 2)}}
	assert.True(t, script.Evaluate(s, big.NewInt(0)))
}

func TestEncodeVarint_Boundaries(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []byte{0xfc}, script.EncodeVarint(0xfc))
	assert.Equal(t, []byte{0xfd, 0xfd, 0x00}, script.EncodeVarint(0xfd))
	assert.Equal(t, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}, script.EncodeVarint(0x10000))
}
