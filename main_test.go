package main

import "testing"

func TestCheckInsightsSource(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		fromDB  bool
		wantErr bool
	}{
		{"db with query", "rtx 3060", true, false},
		{"db without query", "", true, true},
		{"db with blank query", "   ", true, true},
		{"crawl or file", "", false, false},
	}
	for _, tt := range tests {
		err := checkInsightsSource(tt.query, tt.fromDB)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSiteRoot(t *testing.T) {
	if got := siteRoot("https://www.olx.pl/oferty/q-%s/"); got != "https://www.olx.pl/" {
		t.Errorf("siteRoot: got %q", got)
	}
	if got := siteRoot("not a url %s"); got != "" {
		t.Errorf("siteRoot of a bare string: got %q, want empty", got)
	}
}
