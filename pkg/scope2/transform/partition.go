package transform

import (
	"errors"
	"fmt"

	"github.com/ukaji3/scope2-go/pkg/scope2/models"
)

// Bucket is one output report and the facilities that feed it.
type Bucket struct {
	// Name identifies the bucket, e.g. "SSL".
	Name string `yaml:"name" json:"name"`
	// Sheet is the sheet name of the output workbook.
	Sheet string `yaml:"sheet" json:"sheet"`
	// FileName is the download name of the output workbook.
	FileName string `yaml:"file_name" json:"file_name"`
	// Facilities lists the exact facility values routed to this bucket.
	Facilities []string `yaml:"facilities" json:"facilities"`
}

// DefaultBuckets returns the three facility buckets.
//
// The DWC bucket lists "ALIA MOHD TRADING" while the sheet allow-list has
// "ALIA MOH'D TRADING". Both spellings are kept as used by the reports.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{
			Name:       "SSL",
			Sheet:      "SSL",
			FileName:   "SSL_data.xlsx",
			Facilities: []string{"Shreyas Shipping and Logistics Limited"},
		},
		{
			Name:       "FZE",
			Sheet:      "FZE",
			FileName:   "FZE_data.xlsx",
			Facilities: []string{"TW Logistics FZE"},
		},
		{
			Name:     "DWC",
			Sheet:    "DWC",
			FileName: "DWC_data.xlsx",
			Facilities: []string{
				"DWC",
				"AL ROSTAMANI",
				"M&M Global",
				"ALIA MOHD TRADING",
				"AL SAYEGH",
				"TB07",
				"Global Logistics Investments FZE",
			},
		},
	}
}

// Partition splits t by the value of column. The result is aligned with
// buckets. A row goes to the first bucket listing its facility; rows whose
// facility no bucket lists are dropped.
func Partition(t *models.Table, column string, buckets []Bucket) []*models.Table {
	owner := make(map[string]int)
	for i := len(buckets) - 1; i >= 0; i-- {
		for _, f := range buckets[i].Facilities {
			owner[f] = i
		}
	}

	out := make([]*models.Table, len(buckets))
	for i := range buckets {
		out[i] = t.Filter(func(row models.Row) bool {
			facility, ok := row.Get(column).(string)
			if !ok {
				return false
			}
			b, ok := owner[facility]
			return ok && b == i
		})
	}
	return out
}

// ValidateBuckets checks that buckets are named, unique and disjoint.
func ValidateBuckets(buckets []Bucket) error {
	var errs []error
	names := make(map[string]bool, len(buckets))
	owner := make(map[string]string)
	for _, b := range buckets {
		switch {
		case b.Name == "":
			errs = append(errs, errors.New("bucket without a name"))
			continue
		case names[b.Name]:
			errs = append(errs, fmt.Errorf("bucket %q defined twice", b.Name))
		}
		names[b.Name] = true
		if b.Sheet == "" {
			errs = append(errs, fmt.Errorf("bucket %q has no sheet name", b.Name))
		}
		if b.FileName == "" {
			errs = append(errs, fmt.Errorf("bucket %q has no file name", b.Name))
		}
		for _, f := range b.Facilities {
			if prev, ok := owner[f]; ok && prev != b.Name {
				errs = append(errs, fmt.Errorf("facility %q is in buckets %q and %q", f, prev, b.Name))
				continue
			}
			owner[f] = b.Name
		}
	}
	return errors.Join(errs...)
}
