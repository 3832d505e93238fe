package forensics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/service"
)

// auditTimeout bounds one background emission, including its retry.
const auditTimeout = 10 * time.Second

// auditDispatcher tracks in-flight fire-and-forget emissions so Flush can
// drain them at shutdown.
type auditDispatcher struct {
	wg sync.WaitGroup
}

// emitAudit submits exactly one audit record for a completed mutation. The
// call returns immediately: the post happens in a detached goroutine with
// its own deadline, failures are logged and swallowed, and the caller's
// response never waits on the ledger.
func (m *Manager) emitAudit(entityType, entityID, action, actor string, metadata map[string]any) {
	if m.ledger == nil {
		return
	}

	entry := service.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		ActorType:  "user",
		Metadata:   metadata,
	}

	m.audits.wg.Add(1)
	go func() {
		defer m.audits.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		err := common.WithRetry(ctx, func() error {
			receipt, postErr := m.ledger.PostEntry(ctx, entry)
			if postErr != nil {
				return postErr
			}
			if receipt == nil {
				slog.Debug("Audit ledger accepted entry without receipt",
					"entity_type", entityType,
					"entity_id", entityID,
					"action", action)
			}
			return nil
		}, common.RetryOptions{MaxAttempts: 2, InitialDelay: 250 * time.Millisecond})
		if err != nil {
			slog.Warn("Audit ledger post failed",
				"entity_type", entityType,
				"entity_id", entityID,
				"action", action,
				"error", err)
		}
	}()
}

// Flush waits for any in-flight audit emissions. Meant for graceful
// shutdown and tests; request paths never call it.
func (m *Manager) Flush() {
	m.audits.wg.Wait()
}
