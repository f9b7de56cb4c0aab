// internal/services/workflow_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cantonapps/licensing-backend/internal/config"
	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

type WorkflowTestSuite struct {
	suite.Suite
	fake     *fakeLedger
	requests *AppInstallRequestService
	installs *AppInstallService
	licenses *LicenseService
	renewals *LicenseRenewalService
	workflow *WorkflowService
	ctx      context.Context
}

func (suite *WorkflowTestSuite) SetupTest() {
	suite.fake = newFakeLedger()
	suite.requests = NewAppInstallRequestService(suite.fake, nil)
	suite.installs = NewAppInstallService(suite.fake, nil)
	suite.licenses = NewLicenseService(suite.fake, nil)
	suite.renewals = NewLicenseRenewalService(suite.fake, nil)
	suite.workflow = NewWorkflowService(suite.installs, suite.licenses, suite.renewals, config.RenewalConfig{
		FeeCC:                     100,
		ExtensionDuration:         "P30D",
		PaymentAcceptanceDuration: "P7D",
	})
	suite.ctx = context.Background()
}

func (suite *WorkflowTestSuite) refreshAll() {
	suite.Require().NoError(suite.requests.Refresh(suite.ctx))
	suite.Require().NoError(suite.installs.Refresh(suite.ctx))
	suite.Require().NoError(suite.licenses.Refresh(suite.ctx))
	suite.Require().NoError(suite.renewals.Refresh(suite.ctx))
}

func (suite *WorkflowTestSuite) TestInstallToRenewalLifecycle() {
	suite.fake.addRequest(models.AppInstallRequest{
		ContractID: "r1",
		DSO:        "dso::1",
		Provider:   "provider::1",
		User:       "alice::1",
		Meta:       models.NewMetadata(map[string]string{"origin": "test"}),
	})
	suite.refreshAll()

	// Accept consumes the request and produces an install
	installID, err := suite.requests.Accept(suite.ctx, "provider::1", "r1",
		models.NewMetadata(nil), models.NewMetadata(nil))
	suite.Require().NoError(err)
	suite.Empty(suite.requests.List())

	suite.Require().NoError(suite.installs.Refresh(suite.ctx))
	installs := suite.installs.List()
	suite.Require().Len(installs, 1)
	suite.Equal(installID, installs[0].ContractID)
	suite.Equal("alice::1", installs[0].User)
	suite.Equal("provider::1", installs[0].Provider)
	suite.Equal(0, installs[0].NumLicensesCreated)

	// CreateLicense bumps the counter and spawns License #1
	created, err := suite.workflow.CreateLicenseFromAppInstall(suite.ctx, "provider::1", installID,
		models.NewMetadata(nil))
	suite.Require().NoError(err)

	installs = suite.installs.List()
	suite.Require().Len(installs, 1)
	suite.Equal(created.InstallID, installs[0].ContractID)
	suite.Equal(1, installs[0].NumLicensesCreated)

	licenses := suite.licenses.List()
	suite.Require().Len(licenses, 1)
	suite.Equal(created.LicenseID, licenses[0].ContractID)
	suite.Equal(1, licenses[0].LicenseNum)
	originalExpiry := licenses[0].ExpiresAt

	// Renew leaves the License active and opens an offer + payment request
	renewResult, err := suite.workflow.InitiateLicenseRenewal(suite.ctx, "provider::1", created.LicenseID, "  annual renewal  ")
	suite.Require().NoError(err)
	suite.NotEmpty(renewResult.RenewalRequestID)
	suite.NotEmpty(renewResult.PaymentRequestID)
	suite.Require().Len(suite.licenses.List(), 1)

	suite.Require().NoError(suite.renewals.Refresh(suite.ctx))
	offers := suite.renewals.List()
	suite.Require().Len(offers, 1)
	suite.Equal(renewResult.RenewalRequestID, offers[0].ContractID)
	suite.Equal(1, offers[0].LicenseNum)
	suite.Equal(float64(100), offers[0].LicenseFeeCC)
	suite.Equal(renewResult.PaymentRequestID, offers[0].Reference)

	// Completion consumes offer and old License, extends by 30 days
	newLicenseID, err := suite.workflow.CompleteLicenseRenewal(suite.ctx, "provider::1", renewResult.RenewalRequestID)
	suite.Require().NoError(err)
	suite.Empty(suite.renewals.List())

	licenses = suite.licenses.List()
	suite.Require().Len(licenses, 1)
	suite.Equal(newLicenseID, licenses[0].ContractID)
	suite.NotEqual(created.LicenseID, newLicenseID)
	suite.Equal(1, licenses[0].LicenseNum)
	suite.True(licenses[0].ExpiresAt.Equal(originalExpiry.Add(30*24*time.Hour)),
		"expected expiry %v, got %v", originalExpiry.Add(30*24*time.Hour), licenses[0].ExpiresAt)
}

func (suite *WorkflowTestSuite) TestRejectPathCreatesNoInstall() {
	suite.fake.addRequest(models.AppInstallRequest{
		ContractID: "r2",
		DSO:        "dso::1",
		Provider:   "provider::1",
		User:       "bob::1",
	})
	suite.refreshAll()

	suite.Require().NoError(suite.requests.Reject(suite.ctx, "provider::1", "r2", models.NewMetadata(nil)))

	suite.Empty(suite.requests.List())
	suite.Require().NoError(suite.installs.Refresh(suite.ctx))
	suite.Empty(suite.installs.List())
}

func (suite *WorkflowTestSuite) TestCancelAfterConcurrentAcceptReturnsNotFound() {
	suite.fake.addRequest(models.AppInstallRequest{
		ContractID: "r3",
		DSO:        "dso::1",
		Provider:   "provider::1",
		User:       "carol::1",
	})
	suite.refreshAll()

	_, err := suite.requests.Accept(suite.ctx, "provider::1", "r3",
		models.NewMetadata(nil), models.NewMetadata(nil))
	suite.Require().NoError(err)

	before := suite.requests.List()
	submissionsBefore := suite.fake.submissionCount()

	err = suite.requests.Cancel(suite.ctx, "carol::1", "r3", models.NewMetadata(nil))
	suite.True(ledger.IsNotFound(err))
	suite.Equal(before, suite.requests.List())
	suite.Equal(submissionsBefore, suite.fake.submissionCount())
}

func (suite *WorkflowTestSuite) TestCompleteRenewalWithoutMatchingLicenseFailsFast() {
	suite.fake.addLicense(models.License{
		ContractID: "l9",
		DSO:        "dso::1",
		Provider:   "provider::1",
		User:       "dave::1",
		LicenseNum: 5,
		ExpiresAt:  time.Now().Add(24 * time.Hour).UTC(),
	})
	suite.refreshAll()

	offer, err := suite.licenses.Renew(suite.ctx, "provider::1", "l9", RenewLicenseRequest{
		LicenseFeeCC:              100,
		LicenseExtensionDuration:  "P30D",
		PaymentAcceptanceDuration: "P7D",
		Description:               "extend",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.renewals.Refresh(suite.ctx))

	// The matched License disappears behind the coordinator's back
	suite.Require().NoError(suite.licenses.Expire(suite.ctx, "provider::1", "l9", models.NewMetadata(nil)))
	submissionsBefore := suite.fake.submissionCount()

	_, err = suite.workflow.CompleteLicenseRenewal(suite.ctx, "provider::1", offer.RenewalRequestID)
	suite.True(ledger.IsNotFound(err))
	suite.Equal(submissionsBefore, suite.fake.submissionCount(), "no command may be submitted without a cache match")
}

func (suite *WorkflowTestSuite) TestCompleteRenewalResolvesLicenseByTuple() {
	for _, l := range []models.License{
		{ContractID: "l1", DSO: "dso::1", Provider: "provider::1", User: "eve::1", LicenseNum: 4, ExpiresAt: time.Now().Add(time.Hour).UTC()},
		{ContractID: "l2", DSO: "dso::1", Provider: "provider::1", User: "eve::1", LicenseNum: 5, ExpiresAt: time.Now().Add(time.Hour).UTC()},
		{ContractID: "l3", DSO: "dso::1", Provider: "provider::1", User: "frank::1", LicenseNum: 5, ExpiresAt: time.Now().Add(time.Hour).UTC()},
	} {
		suite.fake.addLicense(l)
	}
	suite.refreshAll()

	offer, err := suite.licenses.Renew(suite.ctx, "provider::1", "l2", RenewLicenseRequest{
		LicenseFeeCC:              100,
		LicenseExtensionDuration:  "P30D",
		PaymentAcceptanceDuration: "P7D",
		Description:               "extend",
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.renewals.Refresh(suite.ctx))

	renewal, ok := suite.renewals.Get(offer.RenewalRequestID)
	suite.Require().True(ok)
	matched, ok := suite.licenses.FindByRenewalTuple(renewal)
	suite.Require().True(ok)
	suite.Equal("l2", matched.ContractID)

	_, err = suite.workflow.CompleteLicenseRenewal(suite.ctx, "provider::1", offer.RenewalRequestID)
	suite.Require().NoError(err)

	remaining := make(map[string]bool)
	for _, l := range suite.licenses.List() {
		remaining[l.ContractID] = true
	}
	suite.False(remaining["l2"], "the renewed License must be consumed")
	suite.True(remaining["l1"])
	suite.True(remaining["l3"])
}

func (suite *WorkflowTestSuite) TestRenewalPolicyConstantsApplied() {
	suite.fake.addLicense(models.License{
		ContractID: "l4",
		DSO:        "dso::1",
		Provider:   "provider::1",
		User:       "gina::1",
		LicenseNum: 1,
		ExpiresAt:  time.Now().Add(time.Hour).UTC(),
	})
	suite.refreshAll()

	_, err := suite.workflow.InitiateLicenseRenewal(suite.ctx, "provider::1", "l4", "policy check")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.renewals.Refresh(suite.ctx))
	offers := suite.renewals.List()
	suite.Require().Len(offers, 1)
	suite.Equal(float64(100), offers[0].LicenseFeeCC)
	suite.Equal("30 days", offers[0].LicenseExtensionDuration)
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}
