// internal/services/app_install_request_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// AppInstallRequestService mirrors the active AppInstallRequest set and
// drives its three terminal transitions. Accept is provider-only and is the
// only path that produces an AppInstall; Reject (provider) and Cancel (user)
// consume the request with no successor.
type AppInstallRequestService struct {
	workflowStore[models.AppInstallRequest]
}

func NewAppInstallRequestService(gateway ledger.Gateway, audit *AuditService) *AppInstallRequestService {
	return &AppInstallRequestService{
		workflowStore: workflowStore[models.AppInstallRequest]{
			gateway: gateway,
			audit:   audit,
			kind:    models.KindAppInstallRequest,
			id:      func(r models.AppInstallRequest) string { return r.ContractID },
		},
	}
}

type acceptAppInstallRequestArgument struct {
	InstallMeta models.Metadata `json:"installMeta"`
	Meta        models.Metadata `json:"meta"`
}

type metaOnlyArgument struct {
	Meta models.Metadata `json:"meta"`
}

// Accept consumes the request and returns the new AppInstall contract id.
func (s *AppInstallRequestService) Accept(ctx context.Context, party, contractID string, installMeta, meta models.Metadata) (string, error) {
	result, err := s.exercise(ctx, party, contractID, models.ChoiceAppInstallRequestAccept,
		acceptAppInstallRequestArgument{InstallMeta: installMeta, Meta: meta}, meta)
	if err != nil {
		return "", err
	}

	var installID string
	if err := json.Unmarshal(result.ExerciseResult, &installID); err != nil {
		return "", fmt.Errorf("failed to decode accept result: %w", err)
	}
	return installID, nil
}

func (s *AppInstallRequestService) Reject(ctx context.Context, party, contractID string, meta models.Metadata) error {
	_, err := s.exercise(ctx, party, contractID, models.ChoiceAppInstallRequestReject,
		metaOnlyArgument{Meta: meta}, meta)
	return err
}

func (s *AppInstallRequestService) Cancel(ctx context.Context, party, contractID string, meta models.Metadata) error {
	_, err := s.exercise(ctx, party, contractID, models.ChoiceAppInstallRequestCancel,
		metaOnlyArgument{Meta: meta}, meta)
	return err
}
