package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/angelprotocol/harness/chain"
	"github.com/angelprotocol/harness/types"
)

// AssetInfo is either a cw20 token or a native denom
type AssetInfo struct {
	Token       *TokenInfo       `json:"token,omitempty"`
	NativeToken *NativeTokenInfo `json:"native_token,omitempty"`
}

type TokenInfo struct {
	ContractAddr string `json:"contract_addr"`
}

type NativeTokenInfo struct {
	Denom string `json:"denom"`
}

// TokenAsset returns the asset info of a cw20 token
func TokenAsset(contractAddr string) AssetInfo {
	return AssetInfo{Token: &TokenInfo{ContractAddr: contractAddr}}
}

// NativeAsset returns the asset info of a native denom
func NativeAsset(denom string) AssetInfo {
	return AssetInfo{NativeToken: &NativeTokenInfo{Denom: denom}}
}

func (a AssetInfo) ValidateBasic() error {
	if err := exactlyOne("asset info", a.Token != nil, a.NativeToken != nil); err != nil {
		return err
	}
	if a.Token != nil {
		return ValidateAddress(a.Token.ContractAddr)
	}
	if err := sdk.ValidateDenom(a.NativeToken.Denom); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "denom %q", a.NativeToken.Denom)
	}
	return nil
}

type Asset struct {
	Info   AssetInfo `json:"info"`
	Amount sdk.Int   `json:"amount"`
}

func (a Asset) ValidateBasic() error {
	if err := a.Info.ValidateBasic(); err != nil {
		return err
	}
	if a.Amount.IsNil() || !a.Amount.IsPositive() {
		return sdkerrors.Wrap(types.ErrInvalidMsg, "asset amount")
	}
	return nil
}

// SwapFactoryInstantiateMsg instantiates a terraswap or loopswap factory
type SwapFactoryInstantiateMsg struct {
	PairCodeID  uint64 `json:"pair_code_id"`
	TokenCodeID uint64 `json:"token_code_id"`
}

func (m SwapFactoryInstantiateMsg) ValidateBasic() error {
	if m.PairCodeID == 0 || m.TokenCodeID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "code id")
	}
	return nil
}

type SwapFactoryExecuteMsg struct {
	CreatePair *CreatePairMsg `json:"create_pair,omitempty"`
}

func (m SwapFactoryExecuteMsg) ValidateBasic() error {
	if m.CreatePair == nil {
		return sdkerrors.Wrap(types.ErrEmpty, "factory execute: no variant set")
	}
	for _, a := range m.CreatePair.AssetInfos {
		if err := a.ValidateBasic(); err != nil {
			return err
		}
	}
	return nil
}

type CreatePairMsg struct {
	AssetInfos [2]AssetInfo `json:"asset_infos"`
}

type SwapPairExecuteMsg struct {
	ProvideLiquidity *ProvideLiquidityMsg `json:"provide_liquidity,omitempty"`
}

func (m SwapPairExecuteMsg) ValidateBasic() error {
	if m.ProvideLiquidity == nil {
		return sdkerrors.Wrap(types.ErrEmpty, "pair execute: no variant set")
	}
	for _, a := range m.ProvideLiquidity.Assets {
		if err := a.ValidateBasic(); err != nil {
			return err
		}
	}
	return nil
}

type ProvideLiquidityMsg struct {
	Assets            [2]Asset `json:"assets"`
	SlippageTolerance *sdk.Dec `json:"slippage_tolerance,omitempty"`
}

type SwapRouterInstantiateMsg struct {
	TerraswapFactory string `json:"terraswap_factory"`
}

func (m SwapRouterInstantiateMsg) ValidateBasic() error {
	return sdkerrors.Wrap(ValidateAddress(m.TerraswapFactory), "factory")
}

type LbpFactoryInstantiateMsg struct {
	Owner          string  `json:"owner"`
	PairCodeID     uint64  `json:"pair_code_id"`
	TokenCodeID    uint64  `json:"token_code_id"`
	CommissionRate sdk.Dec `json:"commission_rate"`
	CollectorAddr  string  `json:"collector_addr"`
}

func (m LbpFactoryInstantiateMsg) ValidateBasic() error {
	if err := ValidateAddress(m.Owner); err != nil {
		return sdkerrors.Wrap(err, "owner")
	}
	if m.PairCodeID == 0 || m.TokenCodeID == 0 {
		return sdkerrors.Wrap(types.ErrEmpty, "code id")
	}
	if err := validatePercentage("commission rate", m.CommissionRate); err != nil {
		return err
	}
	return sdkerrors.Wrap(ValidateAddress(m.CollectorAddr), "collector")
}

type LbpFactoryExecuteMsg struct {
	CreatePair *LbpCreatePairMsg `json:"create_pair,omitempty"`
}

func (m LbpFactoryExecuteMsg) ValidateBasic() error {
	if m.CreatePair == nil {
		return sdkerrors.Wrap(types.ErrEmpty, "lbp factory execute: no variant set")
	}
	return m.CreatePair.ValidateBasic()
}

type WeightedAssetInfo struct {
	Info        AssetInfo `json:"info"`
	StartWeight sdk.Int   `json:"start_weight"`
	EndWeight   sdk.Int   `json:"end_weight"`
}

type LbpCreatePairMsg struct {
	AssetInfos  [2]WeightedAssetInfo `json:"asset_infos"`
	StartTime   uint64               `json:"start_time"`
	EndTime     uint64               `json:"end_time"`
	Description string               `json:"description,omitempty"`
}

func (m LbpCreatePairMsg) ValidateBasic() error {
	for _, a := range m.AssetInfos {
		if err := a.Info.ValidateBasic(); err != nil {
			return err
		}
		if a.StartWeight.IsNil() || a.EndWeight.IsNil() || !a.StartWeight.IsPositive() || !a.EndWeight.IsPositive() {
			return sdkerrors.Wrap(types.ErrInvalidMsg, "weights must be positive")
		}
	}
	if m.StartTime == 0 || m.EndTime <= m.StartTime {
		return sdkerrors.Wrapf(types.ErrInvalidMsg, "time window %d - %d", m.StartTime, m.EndTime)
	}
	return nil
}

type LbpRouterInstantiateMsg struct {
	LbpFactory string `json:"lbp_factory"`
}

func (m LbpRouterInstantiateMsg) ValidateBasic() error {
	return sdkerrors.Wrap(ValidateAddress(m.LbpFactory), "lbp factory")
}

type PairQuery struct {
	Pair *struct{} `json:"pair,omitempty"`
	Pool *struct{} `json:"pool,omitempty"`
}

type PairInfo struct {
	AssetInfos     [2]AssetInfo `json:"asset_infos"`
	ContractAddr   string       `json:"contract_addr"`
	LiquidityToken string       `json:"liquidity_token"`
}

const (
	attributeKeyPairAddr      = "pair_contract_addr"
	attributeKeyLiquidityAddr = "liquidity_token_addr"
)

// DecodeCreatePair reads the pair and liquidity token addresses from a factory create_pair result.
// Factories that do not emit them are read from the instantiate events: pair first, token second.
func DecodeCreatePair(r *chain.TxResult) (PairInfo, error) {
	if err := r.Err(); err != nil {
		return PairInfo{}, err
	}
	pair, okPair := r.AnyAttribute(attributeKeyPairAddr)
	lp, okLP := r.AnyAttribute(attributeKeyLiquidityAddr)
	if okPair && okLP {
		return PairInfo{ContractAddr: pair, LiquidityToken: lp}, nil
	}
	created := chain.InstantiatedContracts(r)
	if len(created) < 2 {
		return PairInfo{}, sdkerrors.Wrapf(types.ErrAttributeNotFound, "pair addresses in tx %s", r.TxHash)
	}
	return PairInfo{ContractAddr: created[0], LiquidityToken: created[1]}, nil
}
