// internal/services/store.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/models"
)

// contractCache holds the last snapshot returned by the ledger for one
// entity family. Replace swaps the whole slice under the lock, so readers
// only ever observe a snapshot that was actually returned by a query, never
// a mix of two.
type contractCache[T any] struct {
	mtx      sync.RWMutex
	snapshot []T
}

func (c *contractCache[T]) List() []T {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	out := make([]T, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

func (c *contractCache[T]) Replace(items []T) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.snapshot = items
}

func (c *contractCache[T]) Find(pred func(T) bool) (T, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	for _, item := range c.snapshot {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *contractCache[T]) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.snapshot)
}

// decodeSnapshots turns raw gateway snapshots into typed entities. setID
// stamps the contract id onto the decoded payload, which does not carry it.
func decodeSnapshots[T any](snapshots []ledger.ContractSnapshot, setID func(*T, string)) ([]T, error) {
	items := make([]T, 0, len(snapshots))
	for _, snap := range snapshots {
		var item T
		if err := json.Unmarshal(snap.Payload, &item); err != nil {
			return nil, fmt.Errorf("failed to decode contract %s: %w", snap.ContractID, err)
		}
		setID(&item, snap.ContractID)
		items = append(items, item)
	}
	return items, nil
}

// workflowStore is the shared machinery behind every entity store: a cached
// active set plus command submission with refresh-after-success semantics.
type workflowStore[T any] struct {
	gateway ledger.Gateway
	audit   *AuditService
	kind    models.EntityKind
	id      func(T) string
	cache   contractCache[T]
}

func (s *workflowStore[T]) List() []T {
	return s.cache.List()
}

// Refresh fetches the authoritative active set and swaps it in atomically.
// The cache is untouched on any failure.
func (s *workflowStore[T]) Refresh(ctx context.Context) error {
	snapshots, err := s.gateway.QueryActiveContracts(ctx, s.kind, "")
	if err != nil {
		return err
	}

	items, err := decodeSnapshots[T](snapshots, func(item *T, contractID string) {
		setContractID(item, contractID)
	})
	if err != nil {
		return err
	}

	s.cache.Replace(items)
	return nil
}

// exercise submits one choice against a contract currently present in the
// cache. A contract that has already left the local snapshot fails with
// NotFoundError before any ledger round-trip. On ledger success the store
// re-fetches so callers observe post-transition state; a failed re-fetch is
// logged but does not undo the transition, the next reconciler tick repairs
// the view.
func (s *workflowStore[T]) exercise(ctx context.Context, party, contractID string, choice models.Choice, argument interface{}, meta models.Metadata) (*ledger.CommandResult, error) {
	if _, ok := s.cache.Find(func(item T) bool { return s.id(item) == contractID }); !ok {
		return nil, &ledger.NotFoundError{Kind: string(s.kind), ContractID: contractID}
	}

	commandID := ledger.NewCommandID()
	result, err := s.gateway.SubmitCommand(ctx, ledger.SubmitRequest{
		ActingParty: party,
		CommandID:   commandID,
		Kind:        s.kind,
		ContractID:  contractID,
		Choice:      choice,
		Argument:    argument,
	})

	s.audit.RecordCommand(party, commandID, s.kind, contractID, choice, meta, err)

	if err != nil {
		return nil, err
	}

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		logrus.WithError(refreshErr).WithFields(logrus.Fields{
			"template_id": s.kind,
			"choice":      choice,
		}).Warn("Refresh after successful command failed; reconciler will catch up")
	}

	return result, nil
}

// setContractID relies on every entity exposing a ContractID string field.
func setContractID(item interface{}, contractID string) {
	switch v := item.(type) {
	case *models.AppInstallRequest:
		v.ContractID = contractID
	case *models.AppInstall:
		v.ContractID = contractID
	case *models.License:
		v.ContractID = contractID
	case *models.LicenseRenewalRequest:
		v.ContractID = contractID
	}
}
