package chain

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"
	rpchttp "github.com/tendermint/tendermint/rpc/client/http"

	"github.com/angelprotocol/harness/types"
)

// NodeStatus is the subset of the tendermint status the harness reports
type NodeStatus struct {
	Moniker     string
	ChainID     string
	Height      int64
	BlockTime   time.Time
	CatchingUp  bool
	NodeVersion string
}

// StatusFn returns the current node status
type StatusFn func(ctx context.Context) (NodeStatus, error)

// RPCStatus queries the tendermint rpc endpoint
func RPCStatus(rpcAddr string) (StatusFn, error) {
	c, err := rpchttp.New(rpcAddr, "/websocket")
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "rpc client %s", rpcAddr)
	}
	return func(ctx context.Context) (NodeStatus, error) {
		s, err := c.Status(ctx)
		if err != nil {
			return NodeStatus{}, err
		}
		return NodeStatus{
			Moniker:     s.NodeInfo.Moniker,
			ChainID:     s.NodeInfo.Network,
			Height:      s.SyncInfo.LatestBlockHeight,
			BlockTime:   s.SyncInfo.LatestBlockTime,
			CatchingUp:  s.SyncInfo.CatchingUp,
			NodeVersion: s.NodeInfo.Version,
		}, nil
	}, nil
}

// AwaitChainUp polls the node until it produced a block at or above minHeight.
// Only this read is retried, transactions never are.
func AwaitChainUp(ctx context.Context, logger log.Logger, status StatusFn, minHeight int64, attempts uint, delay time.Duration) (NodeStatus, error) {
	var last NodeStatus
	err := retry.Do(
		func() error {
			s, err := status(ctx)
			if err != nil {
				return err
			}
			last = s
			if s.Height < minHeight {
				return sdkerrors.Wrapf(types.ErrNotFound, "height %d below %d", s.Height, minHeight)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Info("waiting for chain", "attempt", n+1, "cause", err)
		}),
	)
	if err != nil {
		return last, sdkerrors.Wrap(err, "chain not up")
	}
	logger.Info("chain up", "chain_id", last.ChainID, "height", last.Height)
	return last, nil
}
