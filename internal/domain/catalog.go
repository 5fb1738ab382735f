package domain

import "fmt"

// ReferralTicketID is the sentinel catalog id reserved for the free
// referral ticket.
const ReferralTicketID = -1

// TicketDefinition describes one purchasable ticket tier. Prices are in
// minor currency units. Definitions are immutable after process start.
type TicketDefinition struct {
	ID    int
	Name  string
	Price int64
}

// IsReferral reports whether the definition is the free referral ticket.
func (d TicketDefinition) IsReferral() bool {
	return d.ID == ReferralTicketID
}

// Units returns how many lottery units the ticket is worth. The referral
// ticket counts as a single unit; a paid tier counts its id in units,
// mirroring the tier-to-ticket-count naming of the catalog.
func (d TicketDefinition) Units() int {
	if d.IsReferral() {
		return 1
	}
	return d.ID
}

// TicketUnits returns the lottery unit value for a raw catalog id.
func TicketUnits(ticketID int) int {
	if ticketID == ReferralTicketID {
		return 1
	}
	return ticketID
}

// Catalog holds the fixed list of ticket definitions.
type Catalog struct {
	defs []TicketDefinition
	byID map[int]TicketDefinition
}

// NewCatalog builds a catalog from definitions.
func NewCatalog(defs []TicketDefinition) *Catalog {
	byID := make(map[int]TicketDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Catalog{defs: defs, byID: byID}
}

// DefaultCatalog returns the event's ticket tiers: ten paid tiers where
// tier N costs N*100000 minor units and grants N lottery units, plus the
// free referral ticket.
func DefaultCatalog() *Catalog {
	defs := make([]TicketDefinition, 0, 11)
	for i := 1; i <= 10; i++ {
		defs = append(defs, TicketDefinition{
			ID:    i,
			Name:  fmt.Sprintf("%d (%s)", i*1000, ticketCountLabel(i)),
			Price: int64(i) * 100000,
		})
	}
	defs = append(defs, TicketDefinition{
		ID:    ReferralTicketID,
		Name:  "Repost (free ticket)",
		Price: 0,
	})
	return NewCatalog(defs)
}

// Definitions returns all definitions in catalog order.
func (c *Catalog) Definitions() []TicketDefinition {
	return c.defs
}

// ByID looks up a definition.
func (c *Catalog) ByID(id int) (TicketDefinition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Name returns the display name for a catalog id, falling back to the
// numeric id for unknown tickets.
func (c *Catalog) Name(id int) string {
	if d, ok := c.byID[id]; ok {
		return d.Name
	}
	return fmt.Sprintf("%d", id)
}

func ticketCountLabel(n int) string {
	if n == 1 {
		return "1 ticket"
	}
	return fmt.Sprintf("%d tickets", n)
}
