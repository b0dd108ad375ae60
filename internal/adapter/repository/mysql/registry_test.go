package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"loan-ledger/internal/domain/covenant"
	"loan-ledger/internal/domain/participation"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/internal/testutil/sqlitedb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestParticipations(t *testing.T) {
	repo := NewParticipationRepository(sqlitedb.Open(t))
	ctx := context.Background()

	rows := []*participation.Participation{
		{LoanID: "L1", LenderID: "lender-y", Amount: 5_000_000, ShareBps: 2500, JoinedAt: time.Now().UTC(), IsActive: true},
		{LoanID: "L1", LenderID: "lender-z", Amount: 1_000_000, ShareBps: 500, JoinedAt: time.Now().UTC(), IsActive: false},
		{LoanID: "L2", LenderID: "lender-y", Amount: 1, ShareBps: 10_000, JoinedAt: time.Now().UTC(), IsActive: true},
	}
	for _, p := range rows {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByLoan(ctx, "L1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByLoan = %d, %v", len(list), err)
	}

	if ok, err := repo.HasActive(ctx, "L1", "lender-y"); err != nil || !ok {
		t.Fatalf("lender-y should be active: %v %v", ok, err)
	}
	if ok, err := repo.HasActive(ctx, "L1", "lender-z"); err != nil || ok {
		t.Fatalf("lender-z is inactive: %v %v", ok, err)
	}

	total, err := repo.ActiveShareBps(ctx, "L1")
	if err != nil || total != 2500 {
		t.Fatalf("ActiveShareBps = %d, %v", total, err)
	}
	if total, err := repo.ActiveShareBps(ctx, "none"); err != nil || total != 0 {
		t.Fatalf("ActiveShareBps(empty) = %d, %v", total, err)
	}
}

func TestCovenants(t *testing.T) {
	repo := NewCovenantRepository(sqlitedb.Open(t))
	ctx := context.Background()
	due := time.Now().UTC().Add(90 * 24 * time.Hour)

	for i, name := range []string{"Leverage Ratio", "Interest Cover"} {
		c := &covenant.Covenant{
			CovenantID:  name[:3],
			LoanID:      "L1",
			Index:       i,
			Name:        name,
			Threshold:   decimal.RequireFromString("3500000000000000000"),
			Operator:    covenant.OpLTE,
			Status:      covenant.StatusCompliant,
			NextTestDue: due,
		}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if n, err := repo.CountByLoan(ctx, "L1"); err != nil || n != 2 {
		t.Fatalf("CountByLoan = %d, %v", n, err)
	}

	c, err := repo.GetByIndex(ctx, "L1", 1)
	if err != nil {
		t.Fatalf("GetByIndex: %v", err)
	}
	if c.Name != "Interest Cover" || !c.Threshold.Equal(decimal.RequireFromString("3500000000000000000")) {
		t.Fatalf("unexpected covenant: %+v", c)
	}

	now := time.Now().UTC()
	c.Status = covenant.StatusBreached
	c.LastTestedAt = &now
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	list, err := repo.ListByLoan(ctx, "L1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByLoan = %d, %v", len(list), err)
	}
	if list[1].Status != covenant.StatusBreached || list[1].LastTestedAt == nil {
		t.Fatalf("status not persisted: %+v", list[1])
	}

	if _, err := repo.GetByIndex(ctx, "L1", 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCovenants_ThresholdStaysExact(t *testing.T) {
	repo := NewCovenantRepository(sqlitedb.Open(t))
	ctx := context.Background()

	for i, raw := range []string{
		"3500000000000000000001",
		"18446744073709551617",
		strings.Repeat("9", covenant.MaxThresholdDigits),
	} {
		want := decimal.RequireFromString(raw)
		if err := repo.Create(ctx, &covenant.Covenant{
			CovenantID:  fmt.Sprintf("C%d", i),
			LoanID:      "L1",
			Index:       i,
			Name:        "Leverage Ratio",
			Threshold:   want,
			Operator:    covenant.OpLTE,
			Status:      covenant.StatusCompliant,
			NextTestDue: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("Create %s: %v", raw, err)
		}
		got, err := repo.GetByIndex(ctx, "L1", i)
		if err != nil {
			t.Fatalf("GetByIndex: %v", err)
		}
		if !got.Threshold.Equal(want) || got.Threshold.String() != raw {
			t.Fatalf("threshold %s read back as %s", raw, got.Threshold.String())
		}
	}
}

func TestPrincipals_Directory(t *testing.T) {
	repo := NewPrincipalRepository(sqlitedb.Open(t))
	ctx := context.Background()

	if err := repo.Register(ctx, &principal.Agent{PrincipalID: "agent-1", RegisteredBy: "admin"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// registering twice is a no-op
	if err := repo.Register(ctx, &principal.Agent{PrincipalID: "agent-1", RegisteredBy: "admin"}); err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if ok, err := repo.IsRegistered(ctx, "agent-1"); err != nil || !ok {
		t.Fatalf("IsRegistered = %v, %v", ok, err)
	}

	removed, err := repo.Unregister(ctx, "agent-1")
	if err != nil || !removed {
		t.Fatalf("Unregister = %v, %v", removed, err)
	}
	if removed, _ := repo.Unregister(ctx, "agent-1"); removed {
		t.Fatal("second Unregister should report nothing removed")
	}
	if ok, _ := repo.IsRegistered(ctx, "agent-1"); ok {
		t.Fatal("agent still registered")
	}
}

func TestPrincipals_Roles(t *testing.T) {
	repo := NewPrincipalRepository(sqlitedb.Open(t))
	ctx := context.Background()

	assign := []principal.RoleAssignment{
		{LoanID: "L1", PrincipalID: "p1", Role: principal.RoleBorrower},
		{LoanID: "L1", PrincipalID: "p1", Role: principal.RoleLender},
		{LoanID: "L1", PrincipalID: "p1", Role: principal.RoleLender},
		{LoanID: "L2", PrincipalID: "p1", Role: principal.RoleAgentBank},
	}
	for i := range assign {
		if err := repo.Assign(ctx, &assign[i]); err != nil {
			t.Fatalf("Assign: %v", err)
		}
	}

	roles, err := repo.RolesOf(ctx, "L1", "p1")
	if err != nil {
		t.Fatalf("RolesOf: %v", err)
	}
	if len(roles) != 2 || roles[0] != principal.RoleBorrower || roles[1] != principal.RoleLender {
		t.Fatalf("roles = %v", roles)
	}
	if roles, _ := repo.RolesOf(ctx, "L1", "nobody"); len(roles) != 0 {
		t.Fatalf("unexpected roles: %v", roles)
	}
}
