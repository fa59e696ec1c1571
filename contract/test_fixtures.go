package contract

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/tendermint/tendermint/libs/rand"
)

// RandomAddress returns a random terra account address
func RandomAddress() string {
	addr, err := bech32.ConvertAndEncode("terra", rand.Bytes(20))
	if err != nil {
		panic(err)
	}
	return addr
}

// CreateEndowmentMsgFixture valid create endowment message for tests
func CreateEndowmentMsgFixture(mutators ...func(m *CreateEndowmentMsg)) CreateEndowmentMsg {
	m := CreateEndowmentMsg{
		Owner:              RandomAddress(),
		Name:               "Test Endowment",
		Description:        "Endowment for tests",
		CW4Members:         []Member{{Addr: RandomAddress(), Weight: 1}},
		CW3Threshold:       PercentageThreshold(sdk.NewDecWithPrec(50, 2)),
		CW3MaxVotingPeriod: 100,
		Profile: Profile{
			Overview:      "An endowment",
			EndowmentType: "Charity",
		},
	}
	for _, mut := range mutators {
		mut(&m)
	}
	return m
}
