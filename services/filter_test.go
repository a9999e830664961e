package services

import (
	"testing"

	"olx-browser/models"
)

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters(" 500 ", "1500,50", "  Używane ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.MinPrice == nil || *f.MinPrice != 500 {
		t.Errorf("MinPrice: got %v", f.MinPrice)
	}
	if f.MaxPrice == nil || *f.MaxPrice != 1500.50 {
		t.Errorf("MaxPrice: got %v", f.MaxPrice)
	}
	if f.Condition != "Używane" {
		t.Errorf("Condition: got %q", f.Condition)
	}
}

func TestParseFiltersEmptyIsInactive(t *testing.T) {
	f, err := ParseFilters("", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Active() {
		t.Errorf("expected no active filters, got %s", f)
	}
	if f.String() != "none" {
		t.Errorf("String: got %q", f.String())
	}
}

func TestParseFiltersRejectsGarbage(t *testing.T) {
	if _, err := ParseFilters("abc", "", ""); err == nil {
		t.Errorf("expected an error for a non-numeric min price")
	}
	if _, err := ParseFilters("", "12zł", ""); err == nil {
		t.Errorf("expected an error for a non-numeric max price")
	}
}

func TestFiltersAccept(t *testing.T) {
	min, max := 500.0, 1500.0
	f := Filters{MinPrice: &min, MaxPrice: &max, Condition: "używane"}

	tests := []struct {
		name string
		l    models.Listing
		want bool
	}{
		{"inside range", models.Listing{PriceValue: 1000, Condition: "Używane"}, true},
		{"condition case differs", models.Listing{PriceValue: 1000, Condition: "UŻYWANE"}, true},
		{"on lower bound", models.Listing{PriceValue: 500, Condition: "Używane"}, true},
		{"on upper bound", models.Listing{PriceValue: 1500, Condition: "Używane"}, true},
		{"below min", models.Listing{PriceValue: 499.99, Condition: "Używane"}, false},
		{"above max", models.Listing{PriceValue: 1500.01, Condition: "Używane"}, false},
		{"wrong condition", models.Listing{PriceValue: 1000, Condition: "Nowe"}, false},
		{"missing condition", models.Listing{PriceValue: 1000}, false},
	}
	for _, tt := range tests {
		if got := f.Accept(tt.l); got != tt.want {
			t.Errorf("%s: Accept = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFiltersApplyKeepsOrder(t *testing.T) {
	max := 1000.0
	in := []models.Listing{
		{ID: "a", PriceValue: 100},
		{ID: "b", PriceValue: 2000},
		{ID: "c", PriceValue: 900},
	}
	out := Filters{MaxPrice: &max}.Apply(in)
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("unexpected result: %#v", out)
	}
}
