package chain

import (
	"bytes"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/go-bip39"

	"github.com/angelprotocol/harness/types"
)

// RecoverKey imports the mnemonic into the keyring under name and returns the bech32 address.
// An existing key with the same name is replaced.
func RecoverKey(kr keyring.Keyring, name, mnemonic string) (string, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", sdkerrors.Wrapf(types.ErrInvalidConfig, "mnemonic for %q", name)
	}
	if _, err := kr.Key(name); err == nil {
		if err := kr.Delete(name); err != nil {
			return "", sdkerrors.Wrapf(err, "replace key %q", name)
		}
	}
	hdPath := hd.CreateHDPath(TerraCoinType, 0, 0).String()
	info, err := kr.NewAccount(name, mnemonic, keyring.DefaultBIP39Passphrase, hdPath, hd.Secp256k1)
	if err != nil {
		return "", sdkerrors.Wrapf(err, "import key %q", name)
	}
	return info.GetAddress().String(), nil
}

// MnemonicAddress derives the account of the first key for the coin type
func MnemonicAddress(mnemonic string, coinType uint32) (sdk.AccAddress, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, sdkerrors.Wrap(types.ErrInvalidConfig, "mnemonic")
	}
	hdPath := hd.CreateHDPath(coinType, 0, 0).String()
	bz, err := hd.Secp256k1.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, hdPath)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "derive key")
	}
	return sdk.AccAddress(hd.Secp256k1.Generate()(bz).PubKey().Address()), nil
}

// sameAccount compares a bech32 address of any prefix with the account bytes
func sameAccount(addr string, acc sdk.AccAddress) bool {
	_, bz, err := bech32.DecodeAndConvert(addr)
	return err == nil && bytes.Equal(bz, acc)
}
