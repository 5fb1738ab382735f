package domain

import "testing"

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	defs := catalog.Definitions()
	if len(defs) != 11 {
		t.Fatalf("expected 11 definitions, got %d", len(defs))
	}

	for i := 1; i <= 10; i++ {
		def, ok := catalog.ByID(i)
		if !ok {
			t.Fatalf("tier %d missing", i)
		}
		if def.Price != int64(i)*100000 {
			t.Errorf("tier %d price = %d, want %d", i, def.Price, int64(i)*100000)
		}
		if def.Units() != i {
			t.Errorf("tier %d units = %d, want %d", i, def.Units(), i)
		}
		if def.IsReferral() {
			t.Errorf("tier %d wrongly flagged as referral", i)
		}
	}

	if name := catalog.Name(1); name != "1000 (1 ticket)" {
		t.Errorf("tier 1 name = %q", name)
	}
	if name := catalog.Name(3); name != "3000 (3 tickets)" {
		t.Errorf("tier 3 name = %q", name)
	}
}

func TestDefaultCatalogReferral(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	def, ok := catalog.ByID(ReferralTicketID)
	if !ok {
		t.Fatal("referral definition missing")
	}
	if !def.IsReferral() {
		t.Fatal("referral definition not flagged")
	}
	if def.Price != 0 {
		t.Errorf("referral price = %d, want 0", def.Price)
	}
	if def.Units() != 1 {
		t.Errorf("referral units = %d, want 1", def.Units())
	}
	if def.Name != "Repost (free ticket)" {
		t.Errorf("referral name = %q", def.Name)
	}
}

func TestCatalogUnknownTicket(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	if _, ok := catalog.ByID(42); ok {
		t.Fatal("unknown id should not resolve")
	}
	if name := catalog.Name(42); name != "42" {
		t.Errorf("unknown name = %q, want numeric fallback", name)
	}
	if units := TicketUnits(ReferralTicketID); units != 1 {
		t.Errorf("referral raw units = %d, want 1", units)
	}
}
