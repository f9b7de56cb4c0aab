// internal/models/audit.go
package models

// CommandAudit records every command submitted to the ledger, successful or
// not. Rows are append-only; the ledger stays the system of record for
// contract state, this table only answers "who submitted what, when".
type CommandAudit struct {
	BaseModel
	Party      string        `json:"party" gorm:"index"`
	CommandID  string        `json:"command_id" gorm:"uniqueIndex"`
	Kind       EntityKind    `json:"kind"`
	ContractID string        `json:"contract_id" gorm:"index"`
	Choice     Choice        `json:"choice"`
	Meta       JSONB         `json:"meta" gorm:"type:jsonb"`
	Status     CommandStatus `json:"status"`
	Error      string        `json:"error,omitempty"`
}

func (CommandAudit) TableName() string {
	return "command_audits"
}
