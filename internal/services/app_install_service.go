// internal/services/app_install_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// AppInstallService mirrors the active AppInstall set. CreateLicense may be
// exercised any number of times per install; each call bumps the install's
// license counter and spawns a License numbered with the bumped value.
type AppInstallService struct {
	workflowStore[models.AppInstall]
}

func NewAppInstallService(gateway ledger.Gateway, audit *AuditService) *AppInstallService {
	return &AppInstallService{
		workflowStore: workflowStore[models.AppInstall]{
			gateway: gateway,
			audit:   audit,
			kind:    models.KindAppInstall,
			id:      func(i models.AppInstall) string { return i.ContractID },
		},
	}
}

type createLicenseArgument struct {
	Params models.LicenseParams `json:"params"`
}

// CreateLicenseResult reports the post-transition pair: the install contract
// (re-created with its counter bumped) and the new License.
type CreateLicenseResult struct {
	InstallID string `json:"installId"`
	LicenseID string `json:"licenseId"`
}

func (s *AppInstallService) Cancel(ctx context.Context, party, contractID string, meta models.Metadata) error {
	_, err := s.exercise(ctx, party, contractID, models.ChoiceAppInstallCancel,
		metaOnlyArgument{Meta: meta}, meta)
	return err
}

func (s *AppInstallService) CreateLicense(ctx context.Context, party, contractID string, params models.LicenseParams) (*CreateLicenseResult, error) {
	result, err := s.exercise(ctx, party, contractID, models.ChoiceAppInstallCreateLicense,
		createLicenseArgument{Params: params}, params.Meta)
	if err != nil {
		return nil, err
	}

	var created CreateLicenseResult
	if err := json.Unmarshal(result.ExerciseResult, &created); err != nil {
		return nil, fmt.Errorf("failed to decode create-license result: %w", err)
	}
	return &created, nil
}
