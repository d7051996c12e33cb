package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "integer", input: "12", want: 1200},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "12.3", want: 1230},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "rounds half up", input: "1.005", want: 101},
		{name: "rounds down below half", input: "1.004", want: 100},
		{name: "leading dot", input: ".50", want: 50},
		{name: "whitespace", input: "  7.25  ", want: 725},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-5", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "garbage rejected", input: "abc", wantErr: true},
		{name: "double dot rejected", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "number", input: "45.5", want: 4550},
		{name: "integer number", input: "100", want: 10000},
		{name: "numeric string", input: `"12.34"`, want: 1234},
		{name: "null is zero", input: "null", want: 0},
		{name: "negative allowed at decode", input: "-3", want: -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			if err := json.Unmarshal([]byte(tt.input), &m); err != nil {
				t.Fatalf("unmarshal %q: %v", tt.input, err)
			}
			if m.Cents != tt.want {
				t.Errorf("cents = %d, want %d", m.Cents, tt.want)
			}
		})
	}

	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.34" {
		t.Errorf("marshal = %s, want 12.34", b)
	}

	b, _ = json.Marshal(Money{Cents: 1200})
	if string(b) != "12" {
		t.Errorf("marshal whole amount = %s, want 12", b)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Errorf("positive amount: %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != ErrInvalidAmount {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -1}).Validate(); err != ErrInvalidAmount {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
}
