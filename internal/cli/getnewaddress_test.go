package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos-go/internal/output"
)

func TestRunGetNewAddress_MasteringMainnet(t *testing.T) {
	origMode, origNet := getNewAddressMode, getNewAddressNet
	defer func() { getNewAddressMode, getNewAddressNet = origMode, origNet }()
	getNewAddressMode = "mastering"
	getNewAddressNet = "main"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatJSON)

	require.NoError(t, runGetNewAddress(cmd, nil))
	assert.Contains(t, buf.String(), `"address"`)
	assert.Contains(t, buf.String(), `"network": "main"`)
}

func TestRunGetNewAddress_Testnet(t *testing.T) {
	origMode, origNet := getNewAddressMode, getNewAddressNet
	defer func() { getNewAddressMode, getNewAddressNet = origMode, origNet }()
	getNewAddressMode = "mastering"
	getNewAddressNet = "test"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	require.NoError(t, runGetNewAddress(cmd, nil))
	addr := strings.TrimSpace(buf.String())
	assert.NotEmpty(t, addr)
}

func TestRunGetNewAddress_InvalidMode(t *testing.T) {
	origMode, origNet := getNewAddressMode, getNewAddressNet
	defer func() { getNewAddressMode, getNewAddressNet = origMode, origNet }()
	getNewAddressMode = "mastring" // typo for "mastering"
	getNewAddressNet = "main"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runGetNewAddress(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestRunGetNewAddress_InvalidNet(t *testing.T) {
	origMode, origNet := getNewAddressMode, getNewAddressNet
	defer func() { getNewAddressMode, getNewAddressNet = origMode, origNet }()
	getNewAddressMode = "mastering"
	getNewAddressNet = "bogus"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runGetNewAddress(cmd, nil)
	require.Error(t, err)
}
