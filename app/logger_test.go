package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/angelprotocol/harness/types"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", LogFormatJSON)
	require.NoError(t, err)

	logger.With("module", "cw3").Info("proposal created", "proposal_id", 7)
	logger.Debug("hidden")

	line := buf.String()
	assert.Equal(t, "proposal created", gjson.Get(line, "message").String())
	assert.Equal(t, "cw3", gjson.Get(line, "module").String())
	assert.Equal(t, int64(7), gjson.Get(line, "proposal_id").Int())
	assert.NotContains(t, line, "hidden")
}

func TestNewLoggerPlain(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "", "")
	require.NoError(t, err)
	logger.Info("harness ready", "chain_id", "localterra")
	assert.Contains(t, buf.String(), "harness ready")
	assert.Contains(t, buf.String(), "localterra")
}

func TestNewLoggerInvalid(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud", LogFormatJSON)
	assert.True(t, types.ErrInvalidConfig.Is(err))
	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.True(t, types.ErrInvalidConfig.Is(err))
}
