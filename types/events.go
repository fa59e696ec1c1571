package types

// event types emitted by wasmd
const (
	EventTypeWasm        = "wasm"
	EventTypeInstantiate = "instantiate"
	EventTypeStoreCode   = "store_code"
	EventTypeMigrate     = "migrate"
	EventTypeMessage     = "message"

	AttributeKeyContractAddr = "_contract_address"
	AttributeKeyCodeID       = "code_id"
	AttributeKeyAction       = "action"
)

// attributes emitted by the angel contracts
const (
	AttributeKeyProposalID   = "proposal_id"
	AttributeKeyStatus       = "status"
	AttributeKeyAutoExecuted = "auto-executed"
	AttributeKeyEndowID      = "endow_id"
	AttributeKeyEndowAddr    = "endow_addr"

	AttributeValueTrue = "true"
)
