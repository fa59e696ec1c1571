package types

const (
	// ModuleName is the codespace of the harness errors
	ModuleName = "harness"

	// DefaultLabelPrefix is prepended to every contract label the harness instantiates
	DefaultLabelPrefix = "angel"
)
