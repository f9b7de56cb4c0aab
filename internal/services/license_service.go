// internal/services/license_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

// LicenseService mirrors the active License set. Renew does not consume the
// License; it spawns a renewal offer plus a payment request and the License
// stays transition-eligible until the renewal completes or it expires.
// Nothing here prevents racing renew against expire; the ledger rejects the
// loser and the caller sees a ConflictError.
type LicenseService struct {
	workflowStore[models.License]
}

func NewLicenseService(gateway ledger.Gateway, audit *AuditService) *LicenseService {
	return &LicenseService{
		workflowStore: workflowStore[models.License]{
			gateway: gateway,
			audit:   audit,
			kind:    models.KindLicense,
			id:      func(l models.License) string { return l.ContractID },
		},
	}
}

type RenewLicenseRequest struct {
	LicenseFeeCC              float64 `json:"licenseFeeCc" validate:"required,gt=0"`
	LicenseExtensionDuration  string  `json:"licenseExtensionDuration" validate:"required,iso8601period"`
	PaymentAcceptanceDuration string  `json:"paymentAcceptanceDuration" validate:"required,iso8601period"`
	Description               string  `json:"description" validate:"required"`
}

// relTime is the ledger's wire shape for relative time.
type relTime struct {
	Microseconds int64 `json:"microseconds"`
}

type renewLicenseArgument struct {
	LicenseFeeCC              float64 `json:"licenseFeeCc"`
	LicenseExtensionDuration  relTime `json:"licenseExtensionDuration"`
	PaymentAcceptanceDuration relTime `json:"paymentAcceptanceDuration"`
	Description               string  `json:"description"`
}

type expireLicenseArgument struct {
	Actor string          `json:"actor"`
	Meta  models.Metadata `json:"meta"`
}

// RenewLicenseResult carries the two contracts the renewal choice creates.
type RenewLicenseResult struct {
	RenewalRequestID string
	PaymentRequestID string
}

func (s *LicenseService) Renew(ctx context.Context, party, contractID string, req RenewLicenseRequest) (*RenewLicenseResult, error) {
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	extension, err := utils.ParsePeriod(req.LicenseExtensionDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid extension duration: %w", err)
	}
	acceptance, err := utils.ParsePeriod(req.PaymentAcceptanceDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid payment acceptance duration: %w", err)
	}

	argument := renewLicenseArgument{
		LicenseFeeCC:              req.LicenseFeeCC,
		LicenseExtensionDuration:  relTime{Microseconds: extension.Microseconds()},
		PaymentAcceptanceDuration: relTime{Microseconds: acceptance.Microseconds()},
		Description:               req.Description,
	}

	auditMeta := models.NewMetadata(map[string]string{"description": req.Description})
	result, err := s.exercise(ctx, party, contractID, models.ChoiceLicenseRenew, argument, auditMeta)
	if err != nil {
		return nil, err
	}

	// The choice returns a pair: renewal request cid, payment request cid.
	var pair struct {
		First  string `json:"_1"`
		Second string `json:"_2"`
	}
	if err := json.Unmarshal(result.ExerciseResult, &pair); err != nil {
		return nil, fmt.Errorf("failed to decode renew result: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"license_cid":         contractID,
		"renewal_request_cid": pair.First,
		"payment_request_cid": pair.Second,
		"extension":           utils.FormatPeriodDays(extension),
	}).Info("License renewal offer created")

	return &RenewLicenseResult{
		RenewalRequestID: pair.First,
		PaymentRequestID: pair.Second,
	}, nil
}

func (s *LicenseService) Expire(ctx context.Context, party, contractID string, meta models.Metadata) error {
	_, err := s.exercise(ctx, party, contractID, models.ChoiceLicenseExpire,
		expireLicenseArgument{Actor: party, Meta: meta}, meta)
	return err
}

// FindByRenewalTuple locates the cached License a renewal offer extends.
func (s *LicenseService) FindByRenewalTuple(renewal models.LicenseRenewalRequest) (models.License, bool) {
	return s.cache.Find(renewal.Matches)
}
