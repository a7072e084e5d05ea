package model

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Buy   milk  ", "buy milk"},
		{"Wash\tDishes", "wash dishes"},
		{"ПОЗВОНИТЬ  Маме", "позвонить маме"},
		{"   ", ""},
		{"", ""},
		{"one", "one"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEqualInputsCollide(t *testing.T) {
	if Normalize("Buy milk") != Normalize("  buy   MILK ") {
		t.Fatal("expected spacing and case variants to normalize equal")
	}
}

func TestDisplayForm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"buy milk", "Buy milk"},
		{"  buy   milk  ", "Buy milk"},
		{"уже готово", "Уже готово"},
		{"MIXED Case kept", "MIXED Case kept"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := DisplayForm(tc.in); got != tc.want {
			t.Fatalf("DisplayForm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
