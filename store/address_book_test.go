package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/angelprotocol/harness/types"
)

func TestAddressBookCodes(t *testing.T) {
	b := NewAddressBook(dbm.NewMemDB(), "localterra")

	_, err := b.CodeID("registrar.wasm")
	assert.True(t, types.ErrNotFound.Is(err))

	require.NoError(t, b.SetCodeID("registrar.wasm", 3))
	require.NoError(t, b.SetCodeID("accounts.wasm", 4))
	require.NoError(t, b.SetCodeID("registrar.wasm", 7))

	id, err := b.CodeID("registrar.wasm")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	codes, err := b.Codes()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"registrar.wasm": 7, "accounts.wasm": 4}, codes)
	assert.Equal(t, []string{"accounts.wasm", "registrar.wasm"}, CodeNames(codes))
}

func TestAddressBookAddresses(t *testing.T) {
	db := dbm.NewMemDB()
	b := NewAddressBook(db, "localterra")
	other := NewAddressBook(db, "testnet")

	_, err := b.Address("registrar")
	assert.True(t, types.ErrNotFound.Is(err))

	require.NoError(t, b.SetAddress("registrar", "terra1registrar"))
	require.NoError(t, b.SetAddress("endowment/2", "terra1second"))
	require.NoError(t, b.SetAddress("endowment/1", "terra1first"))
	require.NoError(t, other.SetAddress("registrar", "terra1other"))

	addr, err := b.Address("registrar")
	require.NoError(t, err)
	assert.Equal(t, "terra1registrar", addr)

	addr, err = other.Address("registrar")
	require.NoError(t, err)
	assert.Equal(t, "terra1other", addr)

	entries, err := b.Addresses("endowment/")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "endowment/1", Address: "terra1first"}, {Name: "endowment/2", Address: "terra1second"}}, entries)

	all, err := b.Addresses("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	codes, err := other.Codes()
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestAddressBookSeed(t *testing.T) {
	b := NewAddressBook(dbm.NewMemDB(), "testnet")
	require.NoError(t, b.SetAddress("registrar", "terra1deployed"))

	require.NoError(t, b.Seed(map[string]string{
		"registrar": "terra1recorded",
		"anchor":    "terra1anchor",
	}))

	addr, err := b.Address("registrar")
	require.NoError(t, err)
	assert.Equal(t, "terra1deployed", addr)
	addr, err = b.Address("anchor")
	require.NoError(t, err)
	assert.Equal(t, "terra1anchor", addr)
}

func TestOpenAddressBook(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenAddressBook(dir, "localterra")
	require.NoError(t, err)
	require.NoError(t, b.SetAddress("registrar", "terra1registrar"))
	require.NoError(t, b.Close())

	b, err = OpenAddressBook(dir, "localterra")
	require.NoError(t, err)
	defer b.Close()
	addr, err := b.Address("registrar")
	require.NoError(t, err)
	assert.Equal(t, "terra1registrar", addr)
}
