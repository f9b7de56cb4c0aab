// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BaseModel is shared by locally persisted rows (audit trail only; contract
// snapshots are ledger-owned and never persisted here).
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// EntityKind identifies a ledger template family.
type EntityKind string

const (
	KindAppInstallRequest     EntityKind = "quickstart-licensing:Licensing.AppInstall:AppInstallRequest"
	KindAppInstall            EntityKind = "quickstart-licensing:Licensing.AppInstall:AppInstall"
	KindLicense               EntityKind = "quickstart-licensing:Licensing.License:License"
	KindLicenseRenewalRequest EntityKind = "quickstart-licensing:Licensing.License:LicenseRenewalRequest"
)

// Choice names exercised on ledger contracts.
type Choice string

const (
	ChoiceAppInstallRequestAccept Choice = "AppInstallRequest_Accept"
	ChoiceAppInstallRequestReject Choice = "AppInstallRequest_Reject"
	ChoiceAppInstallRequestCancel Choice = "AppInstallRequest_Cancel"
	ChoiceAppInstallCancel        Choice = "AppInstall_Cancel"
	ChoiceAppInstallCreateLicense Choice = "AppInstall_CreateLicense"
	ChoiceLicenseRenew            Choice = "License_Renew"
	ChoiceLicenseExpire           Choice = "License_Expire"
	ChoiceRenewalCompleteRenewal  Choice = "LicenseRenewalRequest_CompleteRenewal"
)

type CommandStatus string

const (
	CommandStatusSucceeded CommandStatus = "succeeded"
	CommandStatusFailed    CommandStatus = "failed"
)
