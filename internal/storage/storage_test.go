package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedInvestigation(t *testing.T, s *SQLiteStorage, id, owner string) *model.Investigation {
	t.Helper()
	inv := &model.Investigation{
		ID:         id,
		CaseNumber: "CASE-" + id,
		Title:      "Suspected skimming at Lakeview",
		OwnerRef:   owner,
		Status:     model.StatusOpen,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.CreateInvestigation(context.Background(), inv))
	return inv
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveAndListTransactions(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{
			ID:          "t1",
			Date:        time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
			Description: "February rent",
			Amount:      decimal.RequireFromString("1850.00"),
			Kind:        model.KindIncome,
			OwnerRef:    "user-a",
		},
		{
			ID:          "t2",
			Date:        time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
			Description: "Boiler repair",
			Amount:      decimal.RequireFromString("-642.17"),
			Kind:        model.KindExpense,
			OwnerRef:    "user-a",
		},
		{
			ID:       "t3",
			Date:     time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("99.99"),
			Kind:     model.KindExpense,
			OwnerRef: "user-b",
		},
	}
	require.NoError(t, s.SaveTransactions(ctx, txns))

	got, err := s.ListTransactions(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, got, 2, "owner scoping must exclude user-b")
	assert.Equal(t, "t1", got[0].ID)
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("-642.17")),
		"amounts survive the round trip exactly, no float drift")
}

func TestSaveTransactions_DuplicateIDsIgnored(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txn := model.Transaction{
		ID: "t1", Date: time.Now(), Amount: decimal.NewFromInt(10),
		Kind: model.KindExpense, OwnerRef: "user-a",
	}
	require.NoError(t, s.SaveTransactions(ctx, []model.Transaction{txn}))
	require.NoError(t, s.SaveTransactions(ctx, []model.Transaction{txn}))

	got, err := s.ListTransactions(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetTransactionsByIDs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTransactions(ctx, []model.Transaction{
		{ID: "t1", Date: time.Now(), Amount: decimal.NewFromInt(10), Kind: model.KindExpense, OwnerRef: "u"},
		{ID: "t2", Date: time.Now(), Amount: decimal.NewFromInt(20), Kind: model.KindExpense, OwnerRef: "u"},
	}))

	got, err := s.GetTransactionsByIDs(ctx, []string{"t2", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)

	empty, err := s.GetTransactionsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInvestigationLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedInvestigation(t, s, "inv-1", "user-a")

	got, err := s.GetInvestigation(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)
	assert.Equal(t, "user-a", got.OwnerRef)

	require.NoError(t, s.UpdateInvestigationStatus(ctx, "inv-1", model.StatusClosed))
	got, err = s.GetInvestigation(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, got.Status)

	_, err = s.GetInvestigation(ctx, "inv-missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = s.UpdateInvestigationStatus(ctx, "inv-missing", model.StatusClosed)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListInvestigations_OwnerScoped(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedInvestigation(t, s, "inv-1", "user-a")
	seedInvestigation(t, s, "inv-2", "user-b")

	got, err := s.ListInvestigations(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inv-1", got[0].ID)
}

func TestCustodyLog_AppendOnly(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedInvestigation(t, s, "inv-1", "user-a")
	require.NoError(t, s.CreateEvidence(ctx, &model.Evidence{
		ID:              "ev-1",
		InvestigationID: "inv-1",
		EvidenceNumber:  "E-001",
		Type:            "bank_statement",
		CreatedAt:       time.Now().UTC(),
	}))

	first := model.CustodyEntry{
		TransferredTo: "forensic accountant",
		TransferredBy: "property manager",
		Location:      "records room",
		Purpose:       "initial examination",
		Timestamp:     time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	second := model.CustodyEntry{
		TransferredTo: "outside counsel",
		TransferredBy: "forensic accountant",
		Location:      "counsel office",
		Purpose:       "litigation preparation",
		Timestamp:     time.Date(2025, 5, 2, 16, 30, 0, 0, time.UTC),
	}

	require.NoError(t, s.AppendCustodyEntry(ctx, "ev-1", first))
	require.NoError(t, s.AppendCustodyEntry(ctx, "ev-1", second))

	ev, err := s.GetEvidence(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, ev.CustodyLog, 2)
	assert.Equal(t, "forensic accountant", ev.CustodyLog[0].TransferredTo)
	assert.Equal(t, "outside counsel", ev.CustodyLog[1].TransferredTo)
	assert.True(t, ev.CustodyLog[0].Timestamp.Before(ev.CustodyLog[1].Timestamp))
}

func TestCustodyLog_ConcurrentAppendsAllLand(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedInvestigation(t, s, "inv-1", "user-a")
	require.NoError(t, s.CreateEvidence(ctx, &model.Evidence{
		ID:              "ev-1",
		InvestigationID: "inv-1",
		EvidenceNumber:  "E-001",
		Type:            "ledger_export",
		CreatedAt:       time.Now().UTC(),
	}))

	const appends = 10
	var wg sync.WaitGroup
	errs := make(chan error, appends)
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.AppendCustodyEntry(ctx, "ev-1", model.CustodyEntry{
				TransferredTo: "custodian",
				TransferredBy: "investigator",
				Location:      "vault",
				Purpose:       "transfer",
				Timestamp:     time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	ev, err := s.GetEvidence(ctx, "ev-1")
	require.NoError(t, err)
	assert.Len(t, ev.CustodyLog, appends, "every concurrent append must land")
}

func TestAppendCustodyEntry_Validation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.AppendCustodyEntry(ctx, "ev-1", model.CustodyEntry{
		TransferredTo: "someone",
		Timestamp:     time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidCustodyEntry)

	err = s.AppendCustodyEntry(ctx, "ev-missing", model.CustodyEntry{
		TransferredTo: "a", TransferredBy: "b", Location: "c", Purpose: "d",
		Timestamp: time.Now(),
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInsertResults(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedInvestigation(t, s, "inv-1", "user-a")

	require.NoError(t, s.InsertTransactionAnalyses(ctx, []model.TransactionAnalysis{
		{
			ID:              "an-1",
			InvestigationID: "inv-1",
			TransactionID:   "t1",
			RiskLevel:       model.RiskHigh,
			Legitimacy:      model.LegitimacyImproper,
			RedFlags:        []string{"Weekend transaction"},
			Score:           70,
			CreatedAt:       time.Now().UTC(),
		},
	}))

	require.NoError(t, s.InsertAnomalies(ctx, []model.Anomaly{
		{
			ID:              "anom-1",
			InvestigationID: "inv-1",
			Type:            model.AnomalyDuplicatePayment,
			Severity:        model.SeverityHigh,
			Description:     "2 transactions share the same amount, description, and date",
			TransactionIDs:  []string{"t1", "t2"},
			Method:          "composite key grouping",
			Status:          model.AnomalyPending,
			DetectedAt:      time.Now().UTC(),
		},
	}))

	// Empty inserts are valid no-ops.
	require.NoError(t, s.InsertTransactionAnalyses(ctx, nil))
	require.NoError(t, s.InsertAnomalies(ctx, nil))
}
