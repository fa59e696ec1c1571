package app

import (
	"io"
	"time"

	"github.com/cosmos/cosmos-sdk/server"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/rs/zerolog"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/angelprotocol/harness/types"
)

const (
	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// NewLogger returns a zerolog backed logger writing to w
func NewLogger(w io.Writer, level, format string) (log.Logger, error) {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrInvalidConfig, "log level %q", level)
	}
	out := w
	switch format {
	case LogFormatPlain, "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case LogFormatJSON:
	default:
		return nil, sdkerrors.Wrapf(types.ErrInvalidConfig, "log format %q", format)
	}
	return server.ZeroLogWrapper{Logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}, nil
}
