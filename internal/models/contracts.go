// internal/models/contracts.go
package models

import (
	"fmt"
	"time"
)

// Metadata is the open key->string mapping attached to every mutating
// command. The workflow never interprets it; values travel to the ledger for
// auditability only. Shape is closed on purpose: non-string values are
// rejected at the boundary instead of being passed through untyped.
type Metadata struct {
	Data map[string]string `json:"data"`
}

func NewMetadata(data map[string]string) Metadata {
	if data == nil {
		data = make(map[string]string)
	}
	return Metadata{Data: data}
}

// AppInstallRequest exists only until it is accepted, rejected or cancelled.
type AppInstallRequest struct {
	ContractID string   `json:"contractId"`
	DSO        string   `json:"dso"`
	Provider   string   `json:"provider"`
	User       string   `json:"user"`
	Meta       Metadata `json:"meta"`
}

// AppInstall is produced by accepting an AppInstallRequest.
// NumLicensesCreated only ever grows; each AppInstall_CreateLicense bumps it
// and stamps the new License with the bumped value.
type AppInstall struct {
	ContractID         string   `json:"contractId"`
	DSO                string   `json:"dso"`
	Provider           string   `json:"provider"`
	User               string   `json:"user"`
	Meta               Metadata `json:"meta"`
	NumLicensesCreated int      `json:"numLicensesCreated"`
}

type LicenseParams struct {
	Meta Metadata `json:"meta"`
}

// License is an active grant. At most one active License exists per
// (provider, user, licenseNum) at a time.
type License struct {
	ContractID string        `json:"contractId"`
	DSO        string        `json:"dso"`
	Provider   string        `json:"provider"`
	User       string        `json:"user"`
	Params     LicenseParams `json:"params"`
	ExpiresAt  time.Time     `json:"expiresAt"`
	LicenseNum int           `json:"licenseNum"`
}

func (l License) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// LicenseRenewalRequest is a provider-issued renewal offer. It stays active
// while the offer is unpaid; Reference correlates to the payment request
// created alongside it.
type LicenseRenewalRequest struct {
	ContractID               string  `json:"contractId"`
	Provider                 string  `json:"provider"`
	User                     string  `json:"user"`
	DSO                      string  `json:"dso"`
	LicenseNum               int     `json:"licenseNum"`
	LicenseFeeCC             float64 `json:"licenseFeeCc"`
	LicenseExtensionDuration string  `json:"licenseExtensionDuration"`
	Reference                string  `json:"reference"`
}

// Matches reports whether lic is the License this renewal offer extends.
func (r LicenseRenewalRequest) Matches(lic License) bool {
	return r.DSO == lic.DSO &&
		r.Provider == lic.Provider &&
		r.User == lic.User &&
		r.LicenseNum == lic.LicenseNum
}

func (r LicenseRenewalRequest) String() string {
	return fmt.Sprintf("LicenseRenewalRequest(%s, provider=%s, user=%s, licenseNum=%d)",
		r.ContractID, r.Provider, r.User, r.LicenseNum)
}
