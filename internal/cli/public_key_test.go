package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos-go/internal/output"
)

func TestRunPublicKey_MasteringBitcoinVector(t *testing.T) {
	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	secretHex := []string{"3aba4162c7251c891207b747840551a71939b0de081f85c4e44cf7c13e41daa6"}
	require.NoError(t, runPublicKey(cmd, secretHex))

	out := buf.String()
	assert.Contains(t, out, "X:")
	assert.Contains(t, out, "Y:")
}

func TestRunPublicKey_InvalidHex(t *testing.T) {
	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runPublicKey(cmd, []string{"not-hex-at-all!"})
	require.Error(t, err)
}

func TestRunPublicKey_OutOfRangeScalar(t *testing.T) {
	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runPublicKey(cmd, []string{"0"})
	require.Error(t, err)
}

func TestRunPublicKey_JSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatJSON)

	require.NoError(t, runPublicKey(cmd, []string{"01"}))
	assert.Contains(t, buf.String(), `"x"`)
	assert.Contains(t, buf.String(), `"y"`)
}
