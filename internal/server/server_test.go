package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/scope2-go/internal/xlsxtest"
	"github.com/ukaji3/scope2-go/pkg/scope2"
	"github.com/ukaji3/scope2-go/pkg/scope2/output"
	"github.com/ukaji3/scope2-go/pkg/scope2/parser"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, templatePath string) *Server {
	t.Helper()
	if templatePath == "" {
		templatePath = xlsxtest.Save(t, "Electricity-Sample.xlsx", xlsxtest.Sheet{
			Name: "Electricity",
			Rows: [][]any{{"Country", "Facility", "Energy Consumption", "Res_Date"}},
		})
	}
	opts := scope2.DefaultOptions()
	opts.Config.Template.Path = templatePath
	p, err := scope2.New(opts)
	require.NoError(t, err)
	return New(p, zerolog.Nop())
}

func clientWorkbook(t *testing.T) []byte {
	t.Helper()
	return xlsxtest.Build(t,
		xlsxtest.Sheet{Name: "SSLL", Rows: [][]any{
			{"Country", "Office/Factory/Site/\nLocation(Optional)", "Units Consumed (in kWh)", "Start Date (DD/MM/YYYY Format)", "Meter"},
			{"UAE", "Shreyas Shipping and Logistics Limited", 1000, "2023-01-01", 7},
		}},
		xlsxtest.Sheet{Name: "DWC", Rows: [][]any{
			{"Country", "Office/Factory/Site/\nLocation(Optional)", "Units Consumed (in kWh)", "Start Date (DD/MM/YYYY Format)", "Meter"},
			{"UAE", "DWC", 500, "not-a-date", 8},
		}},
	)
}

// uploadRequest builds a multipart POST carrying data as the file field.
func uploadRequest(t *testing.T, path string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("file", "client.xlsx")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	w := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestColumns(t *testing.T) {
	s := newTestServer(t, "")
	w := serve(s, uploadRequest(t, "/api/v1/columns", clientWorkbook(t), nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp columnsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SSLL", resp.Sheet)
	assert.Len(t, resp.Columns, 5)
	assert.Equal(t, "Meter", resp.Columns[4])
}

func TestSplitBundle(t *testing.T) {
	s := newTestServer(t, "")
	w := serve(s, uploadRequest(t, "/api/v1/split", clientWorkbook(t), nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get(DiagnosticsHeader))
	assert.Contains(t, w.Header().Get("Content-Disposition"), BundleName)

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"SSL_data.xlsx", "FZE_data.xlsx", "DWC_data.xlsx", "diagnostics.json"}, names)
}

func TestSplitBucket(t *testing.T) {
	s := newTestServer(t, "")
	w := serve(s, uploadRequest(t, "/api/v1/split/DWC", clientWorkbook(t), nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, output.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="DWC_data.xlsx"`, w.Header().Get("Content-Disposition"))

	wb, err := parser.OpenWorkbook(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	table, err := wb.Table("DWC")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "DWC", table.Rows[0].Get("Facility"))
	assert.Nil(t, table.Rows[0].Get("Res_Date"))
	assert.False(t, table.HasColumn("Meter"))
}

func TestSplitMappingOverride(t *testing.T) {
	s := newTestServer(t, "")
	fields := map[string]string{"map[Energy Consumption]": "Meter"}
	w := serve(s, uploadRequest(t, "/api/v1/split/SSL", clientWorkbook(t), fields))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	wb, err := parser.OpenWorkbook(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	table, err := wb.Table("SSL")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, int64(7), table.Rows[0].Get("Energy Consumption"))
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t, "")
	tests := []struct {
		name   string
		req    *http.Request
		status int
		msg    string
	}{
		{
			name:   "missing upload",
			req:    uploadRequest(t, "/api/v1/split", nil, map[string]string{"note": "x"}),
			status: http.StatusBadRequest,
			msg:    "file",
		},
		{
			name:   "unreadable workbook",
			req:    uploadRequest(t, "/api/v1/split", []byte("garbage"), nil),
			status: http.StatusBadRequest,
			msg:    "read failed",
		},
		{
			name:   "invalid mapping",
			req:    uploadRequest(t, "/api/v1/split", clientWorkbook(t), map[string]string{"map[Bogus]": "Country"}),
			status: http.StatusBadRequest,
			msg:    "mapping failed",
		},
		{
			name:   "unknown bucket",
			req:    uploadRequest(t, "/api/v1/split/XYZ", clientWorkbook(t), nil),
			status: http.StatusNotFound,
			msg:    "XYZ",
		},
		{
			name:   "columns of garbage",
			req:    uploadRequest(t, "/api/v1/columns", []byte("garbage"), nil),
			status: http.StatusBadRequest,
			msg:    "unreadable workbook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, tt.req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, errorOf(t, w), tt.msg)
		})
	}
}

func TestTemplateFailureIsServerError(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "absent.xlsx"))
	w := serve(s, uploadRequest(t, "/api/v1/split", clientWorkbook(t), nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorOf(t, w), "template failed")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusOK, serve(s, uploadRequest(t, "/api/v1/split", clientWorkbook(t), nil)).Code)
	serve(s, uploadRequest(t, "/api/v1/split", []byte("garbage"), nil))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `scope2_runs_total{result="ok"} 1`)
	assert.Contains(t, body, `scope2_runs_total{result="error"} 1`)
	assert.Contains(t, body, `scope2_bucket_rows_total{bucket="DWC"} 1`)
	assert.Contains(t, body, `scope2_diagnostics_total{kind="invalid_date"} 1`)
	assert.True(t, strings.Contains(body, "scope2_run_duration_seconds_count 2"))
}
