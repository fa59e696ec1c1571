package chain

import (
	"context"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/tendermint/tendermint/libs/log"
	"google.golang.org/grpc"

	"github.com/angelprotocol/harness/app/params"
	"github.com/angelprotocol/harness/types"
)

const (
	// DefaultGasAdjustment is multiplied with the simulated gas
	DefaultGasAdjustment = 1.3
	// TerraCoinType is the bip44 coin type of terra keys
	TerraCoinType = 330
)

var _ Client = &GRPCClient{}

// GRPCClient signs with keys from a local keyring and talks to the node gRPC endpoint
type GRPCClient struct {
	conn          *grpc.ClientConn
	encCfg        params.EncodingConfig
	keyring       keyring.Keyring
	chainID       string
	gasPrices     string
	gasAdjustment float64
	logger        log.Logger
}

// GRPCConfig settings for the GRPCClient
type GRPCConfig struct {
	GRPCAddress   string
	ChainID       string
	GasPrices     string
	GasAdjustment float64
}

// NewGRPCClient dials the node. The keyring must hold the keys of all senders.
func NewGRPCClient(ctx context.Context, logger log.Logger, encCfg params.EncodingConfig, kr keyring.Keyring, cfg GRPCConfig) (*GRPCClient, error) {
	conn, err := grpc.DialContext(ctx, cfg.GRPCAddress, grpc.WithInsecure())
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "dial %s", cfg.GRPCAddress)
	}
	if cfg.GasAdjustment == 0 {
		cfg.GasAdjustment = DefaultGasAdjustment
	}
	return &GRPCClient{
		conn:          conn,
		encCfg:        encCfg,
		keyring:       kr,
		chainID:       cfg.ChainID,
		gasPrices:     cfg.GasPrices,
		gasAdjustment: cfg.GasAdjustment,
		logger:        logger.With("client", "grpc"),
	}, nil
}

// Close the grpc connection
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Execute(ctx context.Context, sender, contractAddr string, msg []byte, funds sdk.Coins) (*TxResult, error) {
	return c.broadcast(ctx, sender, &wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: contractAddr,
		Msg:      msg,
		Funds:    funds,
	})
}

func (c *GRPCClient) StoreCode(ctx context.Context, sender string, wasmCode []byte) (*TxResult, error) {
	return c.broadcast(ctx, sender, &wasmtypes.MsgStoreCode{
		Sender:       sender,
		WASMByteCode: wasmCode,
	})
}

func (c *GRPCClient) Instantiate(ctx context.Context, sender string, req InstantiateRequest) (*TxResult, error) {
	return c.broadcast(ctx, sender, &wasmtypes.MsgInstantiateContract{
		Sender: sender,
		Admin:  req.Admin,
		CodeID: req.CodeID,
		Label:  req.Label,
		Msg:    req.Msg,
		Funds:  req.Funds,
	})
}

func (c *GRPCClient) Migrate(ctx context.Context, sender, contractAddr string, codeID uint64, msg []byte) (*TxResult, error) {
	return c.broadcast(ctx, sender, &wasmtypes.MsgMigrateContract{
		Sender:   sender,
		Contract: contractAddr,
		CodeID:   codeID,
		Msg:      msg,
	})
}

func (c *GRPCClient) UpdateAdmin(ctx context.Context, sender, contractAddr, newAdmin string) (*TxResult, error) {
	return c.broadcast(ctx, sender, &wasmtypes.MsgUpdateAdmin{
		Sender:   sender,
		NewAdmin: newAdmin,
		Contract: contractAddr,
	})
}

func (c *GRPCClient) QuerySmart(ctx context.Context, contractAddr string, query []byte) ([]byte, error) {
	rsp, err := wasmtypes.NewQueryClient(c.conn).SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
		Address:   contractAddr,
		QueryData: query,
	})
	if err != nil {
		return nil, err
	}
	return rsp.Data, nil
}

func (c *GRPCClient) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	rsp, err := banktypes.NewQueryClient(c.conn).Balance(ctx, &banktypes.QueryBalanceRequest{Address: addr, Denom: denom})
	if err != nil {
		return sdk.Coin{}, err
	}
	if rsp.Balance == nil {
		return sdk.NewInt64Coin(denom, 0), nil
	}
	return *rsp.Balance, nil
}

// broadcast signs a single tx with the sender key. Gas is simulated and adjusted.
func (c *GRPCClient) broadcast(ctx context.Context, sender string, msgs ...sdk.Msg) (*TxResult, error) {
	for _, m := range msgs {
		if err := m.ValidateBasic(); err != nil {
			return nil, sdkerrors.Wrapf(types.ErrInvalidMsg, "%T: %s", m, err)
		}
	}
	senderAddr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "sender")
	}
	info, err := c.keyring.KeyByAddress(senderAddr)
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrNotFound, "key for %s: %s", sender, err)
	}
	acc, err := c.account(ctx, sender)
	if err != nil {
		return nil, err
	}
	txf := tx.Factory{}.
		WithTxConfig(c.encCfg.TxConfig).
		WithKeybase(c.keyring).
		WithChainID(c.chainID).
		WithGasPrices(c.gasPrices).
		WithGasAdjustment(c.gasAdjustment).
		WithAccountNumber(acc.GetAccountNumber()).
		WithSequence(acc.GetSequence())

	txSvc := txtypes.NewServiceClient(c.conn)
	simBz, err := tx.BuildSimTx(txf, msgs...)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "build simulation tx")
	}
	simRsp, err := txSvc.Simulate(ctx, &txtypes.SimulateRequest{TxBytes: simBz})
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrTransaction, "simulate: %s", err)
	}
	gas := uint64(c.gasAdjustment * float64(simRsp.GasInfo.GasUsed))
	txf = txf.WithGas(gas)

	builder, err := tx.BuildUnsignedTx(txf, msgs...)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "build tx")
	}
	if err := tx.Sign(txf, info.GetName(), builder, true); err != nil {
		return nil, sdkerrors.Wrap(err, "sign tx")
	}
	txBz, err := c.encCfg.TxConfig.TxEncoder()(builder.GetTx())
	if err != nil {
		return nil, sdkerrors.Wrap(err, "encode tx")
	}
	rsp, err := txSvc.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		TxBytes: txBz,
		Mode:    txtypes.BroadcastMode_BROADCAST_MODE_BLOCK,
	})
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrTransaction, "broadcast: %s", err)
	}
	res := NewTxResult(rsp.TxResponse)
	if res == nil {
		return nil, sdkerrors.Wrap(types.ErrTransaction, "empty broadcast response")
	}
	c.logger.Debug("tx result", "hash", res.TxHash, "code", res.Code, "gas_wanted", gas, "gas_used", res.GasUsed)
	return res, res.Err()
}

func (c *GRPCClient) account(ctx context.Context, addr string) (authtypes.AccountI, error) {
	rsp, err := authtypes.NewQueryClient(c.conn).Account(ctx, &authtypes.QueryAccountRequest{Address: addr})
	if err != nil {
		return nil, sdkerrors.Wrapf(types.ErrNotFound, "account %s: %s", addr, err)
	}
	var acc authtypes.AccountI
	if err := c.encCfg.InterfaceRegistry.UnpackAny(rsp.Account, &acc); err != nil {
		return nil, sdkerrors.Wrap(err, "unpack account")
	}
	return acc, nil
}
