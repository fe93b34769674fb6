package models

import (
	"reflect"
	"testing"
)

func TestConcat(t *testing.T) {
	a := NewTable("Country", "Units")
	a.Append(Row{"Country": "UAE", "Units": int64(1000)})
	b := NewTable("Units", "Facility")
	b.Append(Row{"Units": int64(500), "Facility": "DWC"})
	b.Append(Row{"Facility": "TB07"})

	got := Concat(a, nil, b)

	wantCols := []string{"Country", "Units", "Facility"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Fatalf("Columns = %v, expected %v", got.Columns, wantCols)
	}
	if got.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", got.Len())
	}

	wantValues := [][]any{
		{"UAE", int64(1000), nil},
		{nil, int64(500), "DWC"},
		{nil, nil, "TB07"},
	}
	if !reflect.DeepEqual(got.Values(), wantValues) {
		t.Errorf("Values() = %v, expected %v", got.Values(), wantValues)
	}
}

func TestConcatEmpty(t *testing.T) {
	got := Concat()
	if got.Len() != 0 || len(got.Columns) != 0 {
		t.Errorf("Concat() = %+v, expected empty table", got)
	}
}

func TestFilterKeepsColumns(t *testing.T) {
	tbl := NewTable("Facility", "Gas")
	tbl.Append(Row{"Facility": "DWC", "Gas": "CO2"})
	tbl.Append(Row{"Facility": "GLIF", "Gas": "CO2"})

	got := tbl.Filter(func(r Row) bool { return r.Get("Facility") == "DWC" })
	if got.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", got.Len())
	}
	if !reflect.DeepEqual(got.Columns, tbl.Columns) {
		t.Errorf("Columns = %v, expected %v", got.Columns, tbl.Columns)
	}
}

func TestMappingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		wantErr bool
	}{
		{"default", DefaultMapping(), false},
		{"missing field", DefaultMapping()[:3], true},
		{"unknown field", append(DefaultMapping(), FieldMapping{Field: "Gas", Source: "Gas"}), true},
		{"duplicate field", append(DefaultMapping(), FieldMapping{Field: FieldCountry, Source: "Land"}), true},
		{"empty source", DefaultMapping().With(FieldCountry, ""), true},
	}

	for _, tt := range tests {
		err := tt.mapping.Validate(TemplateFields)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestMappingWith(t *testing.T) {
	base := DefaultMapping()
	got := base.With(FieldCountry, "Nation")

	if src, _ := got.Source(FieldCountry); src != "Nation" {
		t.Errorf("Source(Country) = %q, expected %q", src, "Nation")
	}
	if src, _ := base.Source(FieldCountry); src != "Country" {
		t.Errorf("With modified the receiver: Source(Country) = %q", src)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, ""},
		{"DWC", "DWC"},
		{int64(1000), "1000"},
		{12.5, "12.5"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.input); got != tt.expected {
			t.Errorf("FormatValue(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestOriginsFollowRows(t *testing.T) {
	a := NewTable("Facility")
	a.AppendFrom(Row{"Facility": "SSL"}, Origin{Sheet: "SSLL", Row: 2})
	b := NewTable("Facility")
	b.Append(Row{"Facility": "Unknown"})
	b.AppendFrom(Row{"Facility": "DWC"}, Origin{Sheet: "DWC", Row: 5})

	merged := Concat(a, b)
	want := []Origin{{Sheet: "SSLL", Row: 2}, {}, {Sheet: "DWC", Row: 5}}
	for i, o := range want {
		if got := merged.Origin(i); got != o {
			t.Errorf("Origin(%d) = %+v, expected %+v", i, got, o)
		}
	}
	if !merged.Origin(1).IsZero() || merged.Origin(9) != (Origin{}) {
		t.Error("Expected unknown origins to be zero")
	}

	dwc := merged.Filter(func(r Row) bool { return r.Get("Facility") == "DWC" })
	if got := dwc.Origin(0); got != (Origin{Sheet: "DWC", Row: 5}) {
		t.Errorf("Filter lost the origin: %+v", got)
	}
}
