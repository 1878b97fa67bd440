package calendar

import (
	"strings"
	"testing"
)

func testQuery() Query {
	return Query{
		PropertyID: 42,
		StartDate:  MustParseDate("2025-03-01"),
		EndDate:    MustParseDate("2025-03-31"),
	}
}

func validCategory(id int64, date string) RoomCategoryCalendar {
	return RoomCategoryCalendar{
		ID:        id,
		Name:      "Deluxe Double",
		Occupancy: 2,
		InventoryCalendar: []RoomInventory{
			{ID: id*100 + 1, Date: MustParseDate(date), Available: 5, Status: true, Booked: 2},
		},
		RatePlans: []RatePlanCalendar{
			{
				ID:   id*1000 + 1,
				Name: "Best Available Rate",
				Calendar: []RateCalendarEntry{
					{ID: id*10000 + 1, Date: MustParseDate(date), Rate: 120.50, MinLengthOfStay: 1, ReservationDeadline: 0},
				},
			},
		},
	}
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr string
	}{
		{
			name:  "valid query",
			query: testQuery(),
		},
		{
			name: "zero property id",
			query: Query{
				PropertyID: 0,
				StartDate:  MustParseDate("2025-03-01"),
				EndDate:    MustParseDate("2025-03-31"),
			},
			wantErr: "property_id must be positive",
		},
		{
			name: "negative property id",
			query: Query{
				PropertyID: -7,
				StartDate:  MustParseDate("2025-03-01"),
				EndDate:    MustParseDate("2025-03-31"),
			},
			wantErr: "property_id must be positive",
		},
		{
			name: "missing dates",
			query: Query{
				PropertyID: 42,
			},
			wantErr: "start_date and end_date are required",
		},
		{
			name: "inverted range",
			query: Query{
				PropertyID: 42,
				StartDate:  MustParseDate("2025-03-31"),
				EndDate:    MustParseDate("2025-03-01"),
			},
			wantErr: "is after end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Page)
		wantErr string
	}{
		{
			name:   "valid page",
			mutate: func(p *Page) {},
		},
		{
			name: "duplicate category ids",
			mutate: func(p *Page) {
				p.RoomCategories = append(p.RoomCategories, validCategory(1, "2025-03-02"))
			},
			wantErr: "duplicate room category id 1",
		},
		{
			name: "inventory date before range",
			mutate: func(p *Page) {
				p.RoomCategories[0].InventoryCalendar[0].Date = MustParseDate("2025-02-28")
			},
			wantErr: "outside requested range",
		},
		{
			name: "rate date after range",
			mutate: func(p *Page) {
				p.RoomCategories[0].RatePlans[0].Calendar[0].Date = MustParseDate("2025-04-01")
			},
			wantErr: "outside requested range",
		},
		{
			name: "missing inventory date",
			mutate: func(p *Page) {
				p.RoomCategories[0].InventoryCalendar[0].Date = Date{}
			},
			wantErr: "date is missing",
		},
		{
			name: "negative availability",
			mutate: func(p *Page) {
				p.RoomCategories[0].InventoryCalendar[0].Available = -1
			},
			wantErr: "available -1 is negative",
		},
		{
			name: "negative booked",
			mutate: func(p *Page) {
				p.RoomCategories[0].InventoryCalendar[0].Booked = -3
			},
			wantErr: "booked -3 is negative",
		},
		{
			name: "negative rate",
			mutate: func(p *Page) {
				p.RoomCategories[0].RatePlans[0].Calendar[0].Rate = -0.01
			},
			wantErr: "rate -0.01 is negative",
		},
		{
			name: "zero min length of stay",
			mutate: func(p *Page) {
				p.RoomCategories[0].RatePlans[0].Calendar[0].MinLengthOfStay = 0
			},
			wantErr: "min_length_of_stay 0 is below 1",
		},
		{
			name: "negative reservation deadline",
			mutate: func(p *Page) {
				p.RoomCategories[0].RatePlans[0].Calendar[0].ReservationDeadline = -2
			},
			wantErr: "reservation_deadline -2 is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &Page{
				RoomCategories: []RoomCategoryCalendar{
					validCategory(1, "2025-03-01"),
					validCategory(2, "2025-03-15"),
				},
			}
			tt.mutate(page)

			err := ValidatePage(testQuery(), page)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePage() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidatePage() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePage() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePage_Nil(t *testing.T) {
	if err := ValidatePage(testQuery(), nil); err == nil {
		t.Error("expected error for nil page")
	}
}

func TestPage_HasMore(t *testing.T) {
	p := &Page{NextCursor: "21"}
	if !p.HasMore() {
		t.Error("page with cursor should have more")
	}
	p.NextCursor = ""
	if p.HasMore() {
		t.Error("page without cursor should not have more")
	}
}
