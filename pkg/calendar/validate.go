package calendar

import (
	"fmt"
)

// ValidatePage checks a decoded page against the invariants the backend
// guarantees. A page that fails validation must not be merged into an
// accumulated category sequence.
//
// Checked invariants:
//   - room category IDs are unique within the page
//   - every inventory and rate date falls within [query.StartDate, query.EndDate]
//   - available, booked, rate and reservation_deadline are non-negative
//   - min_length_of_stay is at least 1
func ValidatePage(q Query, p *Page) error {
	if p == nil {
		return fmt.Errorf("page is nil")
	}

	seen := make(map[int64]struct{}, len(p.RoomCategories))
	for _, rc := range p.RoomCategories {
		if _, dup := seen[rc.ID]; dup {
			return fmt.Errorf("duplicate room category id %d", rc.ID)
		}
		seen[rc.ID] = struct{}{}

		for _, inv := range rc.InventoryCalendar {
			if err := checkDateInRange(q, inv.Date); err != nil {
				return fmt.Errorf("room category %d inventory %d: %w", rc.ID, inv.ID, err)
			}
			if inv.Available < 0 {
				return fmt.Errorf("room category %d inventory %d: available %d is negative", rc.ID, inv.ID, inv.Available)
			}
			if inv.Booked < 0 {
				return fmt.Errorf("room category %d inventory %d: booked %d is negative", rc.ID, inv.ID, inv.Booked)
			}
		}

		for _, rp := range rc.RatePlans {
			for _, entry := range rp.Calendar {
				if err := checkDateInRange(q, entry.Date); err != nil {
					return fmt.Errorf("room category %d rate plan %d entry %d: %w", rc.ID, rp.ID, entry.ID, err)
				}
				if entry.Rate < 0 {
					return fmt.Errorf("room category %d rate plan %d entry %d: rate %v is negative", rc.ID, rp.ID, entry.ID, entry.Rate)
				}
				if entry.MinLengthOfStay < 1 {
					return fmt.Errorf("room category %d rate plan %d entry %d: min_length_of_stay %d is below 1", rc.ID, rp.ID, entry.ID, entry.MinLengthOfStay)
				}
				if entry.ReservationDeadline < 0 {
					return fmt.Errorf("room category %d rate plan %d entry %d: reservation_deadline %d is negative", rc.ID, rp.ID, entry.ID, entry.ReservationDeadline)
				}
			}
		}
	}

	return nil
}

func checkDateInRange(q Query, d Date) error {
	if d.IsZero() {
		return fmt.Errorf("date is missing")
	}
	if d.Before(q.StartDate) || d.After(q.EndDate) {
		return fmt.Errorf("date %s outside requested range [%s, %s]", d, q.StartDate, q.EndDate)
	}
	return nil
}
