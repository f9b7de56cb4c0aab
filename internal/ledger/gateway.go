// internal/ledger/gateway.go
package ledger

import (
	"context"
	"encoding/json"

	"github.com/cantonapps/licensing-backend/internal/models"
)

// ContractSnapshot is one active contract as reported by the ledger, payload
// left undecoded so the gateway stays template-agnostic.
type ContractSnapshot struct {
	ContractID string          `json:"contractId"`
	Payload    json.RawMessage `json:"payload"`
}

// SubmitRequest carries one exercise command.
type SubmitRequest struct {
	ActingParty string
	CommandID   string
	Kind        models.EntityKind
	ContractID  string
	Choice      models.Choice
	Argument    interface{}
}

// CommandResult is the choice's exercise result, shape owned by the
// template. Stores decode it into choice-specific result types.
type CommandResult struct {
	ExerciseResult json.RawMessage `json:"exerciseResult"`
}

// Gateway is the boundary every workflow store talks through. Writes go to
// the JSON Ledger API, reads come from the Participant Query Store; both are
// externally owned.
type Gateway interface {
	SubmitCommand(ctx context.Context, req SubmitRequest) (*CommandResult, error)
	QueryActiveContracts(ctx context.Context, kind models.EntityKind, party string) ([]ContractSnapshot, error)
}

type gateway struct {
	client *Client
	pqs    *PQS
}

// NewGateway pairs the write path (JSON Ledger API) with the read path
// (PQS).
func NewGateway(client *Client, pqs *PQS) Gateway {
	return &gateway{client: client, pqs: pqs}
}

func (g *gateway) SubmitCommand(ctx context.Context, req SubmitRequest) (*CommandResult, error) {
	return g.client.Exercise(ctx, req)
}

func (g *gateway) QueryActiveContracts(ctx context.Context, kind models.EntityKind, party string) ([]ContractSnapshot, error) {
	return g.pqs.Active(ctx, kind, party)
}
