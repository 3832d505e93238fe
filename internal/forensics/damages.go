package forensics

import (
	"context"
	"fmt"

	"github.com/haldane/ledgerscope/internal/damages"
	"github.com/haldane/ledgerscope/internal/model"
)

// CalculateDirectLoss resolves the given transaction ids within an
// investigation the actor owns and sums their absolute amounts as direct
// damages. Ids belonging to other owners are dropped, not summed.
//
// Damage results are ephemeral: nothing is persisted, so no audit record is
// emitted.
func (m *Manager) CalculateDirectLoss(ctx context.Context, actor, investigationID string, transactionIDs []string) (*model.DamageCalculationResult, error) {
	inv, err := m.ownedInvestigation(ctx, actor, investigationID)
	if err != nil {
		return nil, err
	}

	txns, err := m.store.GetTransactionsByIDs(ctx, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	owned := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.OwnerRef == inv.OwnerRef {
			owned = append(owned, txn)
		}
	}

	return damages.DirectLoss(owned), nil
}
