// internal/services/audit_service.go
package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cantonapps/licensing-backend/internal/models"
)

// AuditService appends one row per submitted command. Writes are
// fire-and-forget: a broken audit database must never fail or delay a
// workflow transition.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) RecordCommand(party, commandID string, kind models.EntityKind, contractID string, choice models.Choice, meta models.Metadata, cmdErr error) {
	if s == nil || s.db == nil {
		return
	}

	status := models.CommandStatusSucceeded
	errMsg := ""
	if cmdErr != nil {
		status = models.CommandStatusFailed
		errMsg = cmdErr.Error()
	}

	metaData := make(models.JSONB, len(meta.Data))
	for k, v := range meta.Data {
		metaData[k] = v
	}

	entry := &models.CommandAudit{
		Party:      party,
		CommandID:  commandID,
		Kind:       kind,
		ContractID: contractID,
		Choice:     choice,
		Meta:       metaData,
		Status:     status,
		Error:      errMsg,
	}

	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"command_id": commandID,
				"choice":     choice,
			}).Error("Failed to write command audit entry")
		}
	}()
}
