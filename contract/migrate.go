package contract

// MigrateMsg is sent to every Angel Protocol contract on a code upgrade
type MigrateMsg struct{}
