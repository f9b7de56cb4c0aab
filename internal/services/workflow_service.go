// internal/services/workflow_service.go
package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cantonapps/licensing-backend/internal/config"
	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// WorkflowService sequences the flows that span more than one entity store:
// turning an install into a license, opening a renewal offer under the
// provider's policy, and completing a paid renewal against the matching
// License.
type WorkflowService struct {
	installs *AppInstallService
	licenses *LicenseService
	renewals *LicenseRenewalService
	policy   config.RenewalConfig
}

func NewWorkflowService(installs *AppInstallService, licenses *LicenseService, renewals *LicenseRenewalService, policy config.RenewalConfig) *WorkflowService {
	return &WorkflowService{
		installs: installs,
		licenses: licenses,
		renewals: renewals,
		policy:   policy,
	}
}

// CreateLicenseFromAppInstall exercises CreateLicense on the install and
// pulls the License store forward so the new grant is visible to callers.
func (s *WorkflowService) CreateLicenseFromAppInstall(ctx context.Context, party, contractID string, meta models.Metadata) (*CreateLicenseResult, error) {
	result, err := s.installs.CreateLicense(ctx, party, contractID, models.LicenseParams{Meta: meta})
	if err != nil {
		return nil, err
	}

	if refreshErr := s.licenses.Refresh(ctx); refreshErr != nil {
		logrus.WithError(refreshErr).Warn("License refresh after create-license failed; reconciler will catch up")
	}

	return result, nil
}

// InitiateLicenseRenewal opens a renewal offer with the provider's fixed
// policy (fee, extension, payment window); only the description varies per
// call. The ledger creates the renewal request and its payment request as
// one atomic transaction.
func (s *WorkflowService) InitiateLicenseRenewal(ctx context.Context, party, contractID, description string) (*RenewLicenseResult, error) {
	req := RenewLicenseRequest{
		LicenseFeeCC:              s.policy.FeeCC,
		LicenseExtensionDuration:  s.policy.ExtensionDuration,
		PaymentAcceptanceDuration: s.policy.PaymentAcceptanceDuration,
		Description:               strings.TrimSpace(description),
	}
	return s.licenses.Renew(ctx, party, contractID, req)
}

// InitiateLicenseExpiration wraps the description into command metadata and
// expires the license.
func (s *WorkflowService) InitiateLicenseExpiration(ctx context.Context, party, contractID, description string) error {
	meta := models.NewMetadata(map[string]string{
		"description": strings.TrimSpace(description),
	})
	return s.licenses.Expire(ctx, party, contractID, meta)
}

// CompleteLicenseRenewal resolves the License matching the renewal request's
// (dso, provider, user, licenseNum) tuple in the local License cache. With
// no match the operation fails before any ledger contact: the license was
// superseded or expired and the offer can no longer be consummated against
// it. On success both affected stores are refreshed.
func (s *WorkflowService) CompleteLicenseRenewal(ctx context.Context, party, requestContractID string) (string, error) {
	renewal, ok := s.renewals.Get(requestContractID)
	if !ok {
		return "", &ledger.NotFoundError{
			Kind:       string(models.KindLicenseRenewalRequest),
			ContractID: requestContractID,
		}
	}

	license, ok := s.licenses.FindByRenewalTuple(renewal)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"renewal_request_cid": requestContractID,
			"provider":            renewal.Provider,
			"user":                renewal.User,
			"license_num":         renewal.LicenseNum,
		}).Error("No matching License for renewal request")
		return "", &ledger.NotFoundError{
			Kind:       string(models.KindLicense),
			ContractID: renewal.ContractID,
		}
	}

	newLicenseID, err := s.renewals.CompleteRenewal(ctx, party, requestContractID, license.ContractID)
	if err != nil {
		return "", err
	}

	if refreshErr := s.licenses.Refresh(ctx); refreshErr != nil {
		logrus.WithError(refreshErr).Warn("License refresh after renewal completion failed; reconciler will catch up")
	}

	logrus.WithFields(logrus.Fields{
		"renewal_request_cid": requestContractID,
		"old_license_cid":     license.ContractID,
		"new_license_cid":     newLicenseID,
	}).Info("License renewal completed")

	return newLicenseID, nil
}
