// internal/ledger/pqs.go
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cantonapps/licensing-backend/internal/models"
)

// PQS reads active contract sets from the Participant Query Store, a
// Postgres database the participant node keeps in sync with the ledger.
// Each query returns one self-consistent snapshot; the PQS exposes this
// through its active(template) set-returning function.
type PQS struct {
	db *gorm.DB
}

func NewPQS(db *gorm.DB) *PQS {
	return &PQS{db: db}
}

type pqsRow struct {
	ContractID string `gorm:"column:contract_id"`
	Payload    []byte `gorm:"column:payload"`
}

// Active returns every active contract of the given template. When party is
// non-empty, only contracts that name it as user or provider are returned,
// mirroring the visibility filtering the backend applies for its caller.
func (p *PQS) Active(ctx context.Context, kind models.EntityKind, party string) ([]ContractSnapshot, error) {
	var rows []pqsRow
	err := p.db.WithContext(ctx).
		Raw("select contract_id, payload from active(?)", string(kind)).
		Scan(&rows).Error
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("query active %s", kind), Err: err}
	}

	snapshots := make([]ContractSnapshot, 0, len(rows))
	for _, row := range rows {
		if party != "" && !payloadMentionsParty(row.Payload, party) {
			continue
		}
		snapshots = append(snapshots, ContractSnapshot{
			ContractID: row.ContractID,
			Payload:    json.RawMessage(row.Payload),
		})
	}

	logrus.WithFields(logrus.Fields{
		"template_id": kind,
		"count":       len(snapshots),
	}).Debug("Fetched active contracts")

	return snapshots, nil
}

type partyFields struct {
	User     string `json:"user"`
	Provider string `json:"provider"`
}

func payloadMentionsParty(payload []byte, party string) bool {
	var fields partyFields
	if err := json.Unmarshal(payload, &fields); err != nil {
		return false
	}
	return fields.User == party || fields.Provider == party
}
