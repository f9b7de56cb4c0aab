// internal/services/renewal_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// LicenseRenewalService mirrors the active LicenseRenewalRequest set.
// Completion is coordinated by the workflow service, which resolves the
// matching License before calling CompleteRenewal here.
type LicenseRenewalService struct {
	workflowStore[models.LicenseRenewalRequest]
}

func NewLicenseRenewalService(gateway ledger.Gateway, audit *AuditService) *LicenseRenewalService {
	return &LicenseRenewalService{
		workflowStore: workflowStore[models.LicenseRenewalRequest]{
			gateway: gateway,
			audit:   audit,
			kind:    models.KindLicenseRenewalRequest,
			id:      func(r models.LicenseRenewalRequest) string { return r.ContractID },
		},
	}
}

type completeRenewalArgument struct {
	LicenseCID string `json:"licenseCid"`
}

// Get returns the cached renewal request with the given contract id.
func (s *LicenseRenewalService) Get(contractID string) (models.LicenseRenewalRequest, bool) {
	return s.cache.Find(func(r models.LicenseRenewalRequest) bool {
		return r.ContractID == contractID
	})
}

// CompleteRenewal consumes the renewal request and the supplied License,
// producing the extended replacement License whose contract id is returned.
func (s *LicenseRenewalService) CompleteRenewal(ctx context.Context, party, contractID, licenseCID string) (string, error) {
	meta := models.NewMetadata(map[string]string{"licenseCid": licenseCID})
	result, err := s.exercise(ctx, party, contractID, models.ChoiceRenewalCompleteRenewal,
		completeRenewalArgument{LicenseCID: licenseCID}, meta)
	if err != nil {
		return "", err
	}

	var newLicenseID string
	if err := json.Unmarshal(result.ExerciseResult, &newLicenseID); err != nil {
		return "", fmt.Errorf("failed to decode complete-renewal result: %w", err)
	}
	return newLicenseID, nil
}
