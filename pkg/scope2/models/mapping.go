package models

import (
	"errors"
	"fmt"
)

// Template fields that a Mapping must cover.
const (
	FieldCountry           = "Country"
	FieldFacility          = "Facility"
	FieldEnergyConsumption = "Energy Consumption"
	FieldResDate           = "Res_Date"
)

// TemplateFields lists the mapped fields in their canonical order.
var TemplateFields = []string{
	FieldCountry,
	FieldFacility,
	FieldEnergyConsumption,
	FieldResDate,
}

// FieldMapping pairs a template field with the client column feeding it.
type FieldMapping struct {
	Field  string `yaml:"field" json:"field"`
	Source string `yaml:"source" json:"source"`
}

// Mapping is an ordered list of field mappings.
type Mapping []FieldMapping

// DefaultMapping returns the hardcoded client-to-template mapping.
func DefaultMapping() Mapping {
	return Mapping{
		{Field: FieldCountry, Source: "Country"},
		{Field: FieldFacility, Source: "Office/Factory/Site/\nLocation(Optional)"},
		{Field: FieldEnergyConsumption, Source: "Units Consumed (in kWh)"},
		{Field: FieldResDate, Source: "Start Date (DD/MM/YYYY Format)"},
	}
}

// Source returns the client column mapped to field.
func (m Mapping) Source(field string) (string, bool) {
	for _, fm := range m {
		if fm.Field == field {
			return fm.Source, true
		}
	}
	return "", false
}

// With returns a copy of m where field maps to source.
// An unknown field is appended.
func (m Mapping) With(field, source string) Mapping {
	out := make(Mapping, len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Field == field {
			out[i].Source = source
			return out
		}
	}
	return append(out, FieldMapping{Field: field, Source: source})
}

// Validate checks that m maps each of fields exactly once and nothing else.
func (m Mapping) Validate(fields []string) error {
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	seen := make(map[string]bool, len(m))
	var errs []error
	for _, fm := range m {
		switch {
		case !want[fm.Field]:
			errs = append(errs, fmt.Errorf("unknown field %q", fm.Field))
		case seen[fm.Field]:
			errs = append(errs, fmt.Errorf("field %q mapped twice", fm.Field))
		case fm.Source == "":
			errs = append(errs, fmt.Errorf("field %q has no source column", fm.Field))
		}
		seen[fm.Field] = true
	}
	for _, f := range fields {
		if !seen[f] {
			errs = append(errs, fmt.Errorf("field %q is not mapped", f))
		}
	}
	return errors.Join(errs...)
}
