package main

import (
	"testing"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
)

func TestParseMapFlags(t *testing.T) {
	base := models.DefaultMapping()

	m, err := parseMapFlags(base, nil)
	if err != nil || m != nil {
		t.Fatalf("Expected nil mapping without flags, got %v, %v", m, err)
	}

	m, err = parseMapFlags(base, []string{"Energy Consumption=kWh", " Country =Land"})
	if err != nil {
		t.Fatalf("parseMapFlags failed: %v", err)
	}
	if src, _ := m.Source(models.FieldEnergyConsumption); src != "kWh" {
		t.Errorf("Energy Consumption source = %q, expected kWh", src)
	}
	if src, _ := m.Source(models.FieldCountry); src != "Land" {
		t.Errorf("Country source = %q, expected Land", src)
	}
	if src, _ := base.Source(models.FieldCountry); src != "Country" {
		t.Errorf("Base mapping was modified: %q", src)
	}

	for _, bad := range []string{"Country", "=Land"} {
		if _, err := parseMapFlags(base, []string{bad}); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestFormatDiagnostic(t *testing.T) {
	d := models.Diagnostic{
		Kind:     models.KindInvalidDate,
		Row:      4,
		Sheet:    "TB07",
		SheetRow: 6,
		Message:  "Sheet 'TB07' row 6: 'soon' is not a date",
	}
	want := "warning: [invalid_date] Sheet 'TB07' row 6: 'soon' is not a date"
	if got := formatDiagnostic(d); got != want {
		t.Errorf("formatDiagnostic() = %q, expected %q", got, want)
	}
}
