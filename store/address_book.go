package store

import (
	"sort"
	"strconv"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	dbm "github.com/tendermint/tm-db"

	"github.com/angelprotocol/harness/types"
)

const (
	codePrefix     = "code/"
	contractPrefix = "contract/"
)

// AddressBook records uploaded code ids and contract addresses of a network
type AddressBook struct {
	db     dbm.DB
	prefix string
}

// OpenAddressBook opens the goleveldb database `address_book` in dir
func OpenAddressBook(dir, network string) (*AddressBook, error) {
	db, err := dbm.NewDB("address_book", dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "open address book in %s", dir)
	}
	return NewAddressBook(db, network), nil
}

// NewAddressBook stores the entries of the network in db
func NewAddressBook(db dbm.DB, network string) *AddressBook {
	return &AddressBook{db: db, prefix: network + "/"}
}

func (b AddressBook) Close() error {
	return b.db.Close()
}

// SetCodeID records the code id of the wasm artifact name
func (b AddressBook) SetCodeID(name string, id uint64) error {
	return b.db.SetSync(b.key(codePrefix, name), []byte(strconv.FormatUint(id, 10)))
}

// CodeID returns the code id of the wasm artifact name
func (b AddressBook) CodeID(name string) (uint64, error) {
	bz, err := b.get(codePrefix, name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(bz), 10, 64)
	if err != nil {
		return 0, sdkerrors.Wrapf(types.ErrUnexpectedResult, "code id of %s: %s", name, err)
	}
	return id, nil
}

// SetAddress records the address of the contract name
func (b AddressBook) SetAddress(name, addr string) error {
	return b.db.SetSync(b.key(contractPrefix, name), []byte(addr))
}

// Address returns the address of the contract name
func (b AddressBook) Address(name string) (string, error) {
	bz, err := b.get(contractPrefix, name)
	if err != nil {
		return "", err
	}
	return string(bz), nil
}

// Seed records the addresses that are not in the book yet
func (b AddressBook) Seed(addresses map[string]string) error {
	for name, addr := range addresses {
		ok, err := b.db.Has(b.key(contractPrefix, name))
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := b.SetAddress(name, addr); err != nil {
			return err
		}
	}
	return nil
}

// Entry a named contract address
type Entry struct {
	Name    string
	Address string
}

// Addresses returns all contracts whose name starts with the prefix, sorted by name
func (b AddressBook) Addresses(namePrefix string) ([]Entry, error) {
	var result []Entry
	err := b.iterate(contractPrefix+namePrefix, func(name string, value []byte) {
		result = append(result, Entry{Name: namePrefix + name, Address: string(value)})
	})
	return result, err
}

// Codes returns all recorded code ids by artifact name
func (b AddressBook) Codes() (map[string]uint64, error) {
	result := make(map[string]uint64)
	var parseErr error
	err := b.iterate(codePrefix, func(name string, value []byte) {
		id, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil && parseErr == nil {
			parseErr = sdkerrors.Wrapf(types.ErrUnexpectedResult, "code id of %s: %s", name, err)
		}
		result[name] = id
	})
	if err != nil {
		return nil, err
	}
	return result, parseErr
}

// CodeNames returns the sorted artifact names with a recorded code id
func CodeNames(codes map[string]uint64) []string {
	r := make([]string, 0, len(codes))
	for k := range codes {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

func (b AddressBook) iterate(prefix string, cb func(name string, value []byte)) error {
	full := b.key(prefix, "")
	it, err := dbm.IteratePrefix(b.db, full)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		cb(string(it.Key()[len(full):]), it.Value())
	}
	return it.Error()
}

func (b AddressBook) get(prefix, name string) ([]byte, error) {
	bz, err := b.db.Get(b.key(prefix, name))
	switch {
	case err != nil:
		return nil, err
	case bz == nil:
		return nil, sdkerrors.Wrapf(types.ErrNotFound, "%s%s", prefix, name)
	}
	return bz, nil
}

func (b AddressBook) key(prefix, name string) []byte {
	return []byte(b.prefix + prefix + name)
}
