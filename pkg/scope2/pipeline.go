package scope2

import (
	"fmt"
	"io"

	"github.com/ukaji3/scope2-go/pkg/scope2/config"
	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/ukaji3/scope2-go/pkg/scope2/output"
	"github.com/ukaji3/scope2-go/pkg/scope2/parser"
	"github.com/ukaji3/scope2-go/pkg/scope2/transform"
)

// Pipeline runs the merge, map, enrich, partition and write steps.
// A Pipeline holds no per-run state and may be shared between goroutines.
type Pipeline struct {
	opts Options
}

// BucketOutput is one partition of the enriched rows and its workbook.
type BucketOutput struct {
	Bucket transform.Bucket
	Table  *models.Table
	Data   []byte
}

// Result holds everything one run produced.
type Result struct {
	// MergedSheets lists the allow-listed sheets found, in merge order.
	MergedSheets []string
	// Merged is the outer union of the merged sheets.
	Merged *models.Table
	// Schema is the template header.
	Schema []string
	// Outputs is aligned with the configured buckets.
	Outputs []BucketOutput
	// Diagnostics lists the non-fatal findings of the run.
	Diagnostics []models.Diagnostic
}

// Output returns the output of the bucket called name.
func (r *Result) Output(name string) (BucketOutput, bool) {
	for _, o := range r.Outputs {
		if o.Bucket.Name == name {
			return o, true
		}
	}
	return BucketOutput{}, false
}

// Files returns the bucket workbooks under their download names.
func (r *Result) Files() []output.File {
	files := make([]output.File, len(r.Outputs))
	for i, o := range r.Outputs {
		files[i] = output.File{Name: o.Bucket.FileName, Data: o.Data}
	}
	return files
}

// New validates opts.Config and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, NewStepError(StepConfigure, "", err)
	}
	return &Pipeline{opts: opts}, nil
}

// Config returns the configuration the pipeline runs with.
func (p *Pipeline) Config() config.Config {
	return p.opts.Config
}

// RunFile runs the pipeline on the workbook at path.
func (p *Pipeline) RunFile(path string, mapping models.Mapping) (*Result, error) {
	mapping, err := p.resolveMapping(mapping)
	if err != nil {
		return nil, err
	}
	wb, err := parser.OpenWorkbookFile(path)
	if err != nil {
		return nil, NewStepError(StepRead, path, err)
	}
	defer wb.Close()
	return p.run(wb, mapping)
}

// Run processes one uploaded workbook. A nil mapping selects the configured
// mapping. Either every bucket workbook is produced or an error is returned.
func (p *Pipeline) Run(input io.Reader, mapping models.Mapping) (*Result, error) {
	mapping, err := p.resolveMapping(mapping)
	if err != nil {
		return nil, err
	}
	wb, err := parser.OpenWorkbook(input)
	if err != nil {
		return nil, NewStepError(StepRead, "input", err)
	}
	defer wb.Close()
	return p.run(wb, mapping)
}

func (p *Pipeline) resolveMapping(mapping models.Mapping) (models.Mapping, error) {
	if mapping == nil {
		mapping = p.opts.Config.Mapping
	}
	if err := mapping.Validate(models.TemplateFields); err != nil {
		return nil, NewStepError(StepMapping, "", fmt.Errorf("%w: %w", ErrInvalidMapping, err))
	}
	return mapping, nil
}

func (p *Pipeline) run(wb *parser.Workbook, mapping models.Mapping) (*Result, error) {
	cfg := p.opts.Config
	log := p.opts.Logger

	merged, sheets, err := transform.MergeSheets(wb, cfg.Sheets)
	if err != nil {
		return nil, NewStepError(StepMerge, "input", err)
	}
	log.Debug().
		Strs("sheets", sheets).
		Int("rows", merged.Len()).
		Int("columns", len(merged.Columns)).
		Msg("Merged allow-listed sheets")

	schema, err := parser.LoadTemplate(cfg.Template.Path, cfg.Template.Sheet)
	if err != nil {
		return nil, NewStepError(StepTemplate, cfg.Template.Path, err)
	}
	log.Debug().
		Str("template", cfg.Template.Path).
		Strs("schema", schema).
		Msg("Loaded template schema")

	mapped, diags := transform.MapColumns(merged, mapping, schema)
	enriched, dateDiags := transform.Enrich(mapped, cfg.Constants, cfg.DateColumn, cfg.DayFirst)
	diags = append(diags, dateDiags...)

	parts := transform.Partition(enriched, cfg.FacilityColumn, cfg.Buckets)
	outputs := make([]BucketOutput, len(cfg.Buckets))
	for i, b := range cfg.Buckets {
		data, err := output.WriteTable(parts[i], b.Sheet)
		if err != nil {
			return nil, NewStepError(StepWrite, b.FileName, err)
		}
		outputs[i] = BucketOutput{Bucket: b, Table: parts[i], Data: data}
		log.Debug().
			Str("bucket", b.Name).
			Int("rows", parts[i].Len()).
			Msg("Wrote bucket workbook")
	}

	for _, d := range diags {
		log.Warn().
			Str("kind", string(d.Kind)).
			Str("field", d.Field).
			Str("column", d.Column).
			Int("row", d.Row).
			Msg(d.Message)
	}

	return &Result{
		MergedSheets: sheets,
		Merged:       merged,
		Schema:       schema,
		Outputs:      outputs,
		Diagnostics:  diags,
	}, nil
}

// Columns returns the first sheet's name and columns of an uploaded
// workbook, the choices offered when a user builds a mapping by hand.
func Columns(input io.Reader) (string, []string, error) {
	wb, err := parser.OpenWorkbook(input)
	if err != nil {
		return "", nil, NewStepError(StepRead, "input", err)
	}
	defer wb.Close()

	sheet, cols, err := wb.FirstSheetColumns()
	if err != nil {
		return "", nil, NewStepError(StepRead, sheet, err)
	}
	return sheet, cols, nil
}
