// internal/services/ledger_fake_test.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// fakeLedger implements ledger.Gateway in memory with the same consumption
// semantics as the licensing templates: every transition atomically archives
// its pre-image and creates its post-image, so a query never observes both.
type fakeLedger struct {
	mtx sync.Mutex

	requests map[string]models.AppInstallRequest
	installs map[string]models.AppInstall
	licenses map[string]models.License
	renewals map[string]models.LicenseRenewalRequest

	// extension duration per renewal request cid, captured at renew time
	extensions map[string]time.Duration

	nextID      int
	submissions []ledger.SubmitRequest

	// failure injection
	submitErr error
	queryErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		requests:   make(map[string]models.AppInstallRequest),
		installs:   make(map[string]models.AppInstall),
		licenses:   make(map[string]models.License),
		renewals:   make(map[string]models.LicenseRenewalRequest),
		extensions: make(map[string]time.Duration),
	}
}

func (f *fakeLedger) newContractID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeLedger) addRequest(r models.AppInstallRequest) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.requests[r.ContractID] = r
}

func (f *fakeLedger) addLicense(l models.License) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.licenses[l.ContractID] = l
}

func (f *fakeLedger) submissionCount() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return len(f.submissions)
}

func (f *fakeLedger) QueryActiveContracts(_ context.Context, kind models.EntityKind, _ string) ([]ledger.ContractSnapshot, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var snapshots []ledger.ContractSnapshot
	appendSnapshot := func(contractID string, payload interface{}) {
		raw, _ := json.Marshal(payload)
		snapshots = append(snapshots, ledger.ContractSnapshot{ContractID: contractID, Payload: raw})
	}

	switch kind {
	case models.KindAppInstallRequest:
		for id, r := range f.requests {
			appendSnapshot(id, r)
		}
	case models.KindAppInstall:
		for id, i := range f.installs {
			appendSnapshot(id, i)
		}
	case models.KindLicense:
		for id, l := range f.licenses {
			appendSnapshot(id, l)
		}
	case models.KindLicenseRenewalRequest:
		for id, r := range f.renewals {
			appendSnapshot(id, r)
		}
	}
	return snapshots, nil
}

func (f *fakeLedger) SubmitCommand(_ context.Context, req ledger.SubmitRequest) (*ledger.CommandResult, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.submitErr != nil {
		err := f.submitErr
		f.submitErr = nil
		return nil, err
	}

	f.submissions = append(f.submissions, req)

	switch req.Choice {
	case models.ChoiceAppInstallRequestAccept:
		return f.acceptRequest(req)
	case models.ChoiceAppInstallRequestReject, models.ChoiceAppInstallRequestCancel:
		if _, ok := f.requests[req.ContractID]; !ok {
			return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
		}
		delete(f.requests, req.ContractID)
		return resultOf("Archive")
	case models.ChoiceAppInstallCancel:
		if _, ok := f.installs[req.ContractID]; !ok {
			return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
		}
		delete(f.installs, req.ContractID)
		return resultOf("Archive")
	case models.ChoiceAppInstallCreateLicense:
		return f.createLicense(req)
	case models.ChoiceLicenseRenew:
		return f.renewLicense(req)
	case models.ChoiceLicenseExpire:
		if _, ok := f.licenses[req.ContractID]; !ok {
			return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
		}
		delete(f.licenses, req.ContractID)
		return resultOf("Archive")
	case models.ChoiceRenewalCompleteRenewal:
		return f.completeRenewal(req)
	}
	return nil, &ledger.ConflictError{Reason: "unknown choice " + string(req.Choice)}
}

func (f *fakeLedger) acceptRequest(req ledger.SubmitRequest) (*ledger.CommandResult, error) {
	request, ok := f.requests[req.ContractID]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
	}
	delete(f.requests, req.ContractID)

	install := models.AppInstall{
		ContractID:         f.newContractID("install"),
		DSO:                request.DSO,
		Provider:           request.Provider,
		User:               request.User,
		Meta:               request.Meta,
		NumLicensesCreated: 0,
	}
	f.installs[install.ContractID] = install
	return resultOf(install.ContractID)
}

func (f *fakeLedger) createLicense(req ledger.SubmitRequest) (*ledger.CommandResult, error) {
	install, ok := f.installs[req.ContractID]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
	}
	delete(f.installs, req.ContractID)

	install.ContractID = f.newContractID("install")
	install.NumLicensesCreated++
	f.installs[install.ContractID] = install

	license := models.License{
		ContractID: f.newContractID("license"),
		DSO:        install.DSO,
		Provider:   install.Provider,
		User:       install.User,
		ExpiresAt:  time.Now().Add(365 * 24 * time.Hour).Truncate(time.Second).UTC(),
		LicenseNum: install.NumLicensesCreated,
	}
	f.licenses[license.ContractID] = license

	return resultOf(map[string]string{
		"installId": install.ContractID,
		"licenseId": license.ContractID,
	})
}

func (f *fakeLedger) renewLicense(req ledger.SubmitRequest) (*ledger.CommandResult, error) {
	license, ok := f.licenses[req.ContractID]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
	}

	raw, _ := json.Marshal(req.Argument)
	var arg struct {
		LicenseFeeCC             float64 `json:"licenseFeeCc"`
		LicenseExtensionDuration struct {
			Microseconds int64 `json:"microseconds"`
		} `json:"licenseExtensionDuration"`
	}
	if err := json.Unmarshal(raw, &arg); err != nil {
		return nil, &ledger.ConflictError{Reason: "malformed renew argument"}
	}

	renewal := models.LicenseRenewalRequest{
		ContractID:               f.newContractID("renewal"),
		Provider:                 license.Provider,
		User:                     license.User,
		DSO:                      license.DSO,
		LicenseNum:               license.LicenseNum,
		LicenseFeeCC:             arg.LicenseFeeCC,
		LicenseExtensionDuration: fmt.Sprintf("%d days", arg.LicenseExtensionDuration.Microseconds/1e6/86400),
		Reference:                f.newContractID("payment"),
	}
	f.renewals[renewal.ContractID] = renewal
	f.extensions[renewal.ContractID] = time.Duration(arg.LicenseExtensionDuration.Microseconds) * time.Microsecond

	return resultOf(map[string]string{
		"_1": renewal.ContractID,
		"_2": renewal.Reference,
	})
}

func (f *fakeLedger) completeRenewal(req ledger.SubmitRequest) (*ledger.CommandResult, error) {
	renewal, ok := f.renewals[req.ContractID]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: string(req.Kind), ContractID: req.ContractID}
	}

	raw, _ := json.Marshal(req.Argument)
	var arg struct {
		LicenseCID string `json:"licenseCid"`
	}
	if err := json.Unmarshal(raw, &arg); err != nil {
		return nil, &ledger.ConflictError{Reason: "malformed completion argument"}
	}

	license, ok := f.licenses[arg.LicenseCID]
	if !ok {
		return nil, &ledger.ConflictError{Reason: "license already consumed"}
	}

	delete(f.renewals, req.ContractID)
	delete(f.licenses, arg.LicenseCID)

	renewed := license
	renewed.ContractID = f.newContractID("license")
	renewed.ExpiresAt = license.ExpiresAt.Add(f.extensions[renewal.ContractID])
	f.licenses[renewed.ContractID] = renewed

	return resultOf(renewed.ContractID)
}

func resultOf(payload interface{}) (*ledger.CommandResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ledger.CommandResult{ExerciseResult: raw}, nil
}
