// internal/ledger/commandid.go
package ledger

import "github.com/google/uuid"

// NewCommandID mints a process-unique idempotency key for one command
// submission. The ledger deduplicates by (submitter, commandId), so network
// retries of the same submission are safe. A fresh id is minted per call,
// not per logical intent: a caller that resubmits after a transport failure
// creates a distinct logical command, which the ledger will not deduplicate.
func NewCommandID() string {
	return "cmd-" + uuid.NewString()
}
