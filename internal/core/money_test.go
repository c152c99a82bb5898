package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{"-50", -5000},
		{"+3.5", 350},
		{"12.345", 1234}, // rounds down
		{"12.346", 1235}, // rounds up
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"oops", 0},
		{"1.2.3", 0},
		{".99", 99},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in).Cents; got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 1234}).String(); s != "$12.34" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: -905}).String(); s != "-$9.05" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{}).String(); s != "$0.00" {
		t.Fatalf("got %q", s)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 150}
	b := Money{Cents: -50}
	if a.Add(b).Cents != 100 {
		t.Fatal("add")
	}
	if a.Sub(b).Cents != 200 {
		t.Fatal("sub")
	}
	if b.Abs().Cents != 50 {
		t.Fatal("abs")
	}
	if a.Dollars() != 1.5 {
		t.Fatal("dollars")
	}
}
