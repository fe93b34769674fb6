package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukaji3/scope2-go/pkg/scope2"
	"github.com/ukaji3/scope2-go/pkg/scope2/models"
	"github.com/ukaji3/scope2-go/pkg/scope2/output"
)

// BundleName is the download name of the zipped bucket workbooks.
const BundleName = "scope2_outputs.zip"

// DiagnosticsHeader carries the number of diagnostics of a split.
const DiagnosticsHeader = "X-Diagnostics-Count"

type errorResponse struct {
	Error string `json:"error"`
}

type columnsResponse struct {
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) columns(c *gin.Context) {
	up, ok := s.upload(c)
	if !ok {
		return
	}
	defer up.Close()

	sheet, cols, err := scope2.Columns(up)
	if err != nil {
		s.fail(c, err)
		return
	}
	if cols == nil {
		cols = []string{}
	}
	c.JSON(http.StatusOK, columnsResponse{Sheet: sheet, Columns: cols})
}

func (s *Server) split(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}

	data, err := output.Bundle(res.Files(), res.Diagnostics)
	if err != nil {
		s.fail(c, scope2.NewStepError(scope2.StepWrite, BundleName, err))
		return
	}
	c.Header(DiagnosticsHeader, strconv.Itoa(len(res.Diagnostics)))
	c.Header("Content-Disposition", attachment(BundleName))
	c.Data(http.StatusOK, "application/zip", data)
}

func (s *Server) splitBucket(c *gin.Context) {
	name := c.Param("bucket")
	if _, ok := s.pipeline.Config().Bucket(name); !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown bucket %q", name)})
		return
	}

	res, ok := s.run(c)
	if !ok {
		return
	}
	out, _ := res.Output(name)
	c.Header(DiagnosticsHeader, strconv.Itoa(len(res.Diagnostics)))
	c.Header("Content-Disposition", attachment(out.Bucket.FileName))
	c.Data(http.StatusOK, output.ContentType, out.Data)
}

// run reads the upload and its mapping overrides and runs the pipeline.
// It writes the error response itself and reports whether to continue.
func (s *Server) run(c *gin.Context) (*scope2.Result, bool) {
	up, ok := s.upload(c)
	if !ok {
		return nil, false
	}
	defer up.Close()

	start := time.Now()
	res, err := s.pipeline.Run(up, s.mapping(c))
	s.metrics.ObserveRun(res, err, time.Since(start))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return res, true
}

// mapping applies map[<Field>]=<Source> form values to the configured
// mapping. Without overrides the configured mapping is used as is.
func (s *Server) mapping(c *gin.Context) models.Mapping {
	overrides := c.PostFormMap("map")
	if len(overrides) == 0 {
		return nil
	}
	m := s.pipeline.Config().Mapping
	for field, source := range overrides {
		m = m.With(field, source)
	}
	return m
}

func (s *Server) upload(c *gin.Context) (multipart.File, bool) {
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", s.maxUpload),
			})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "multipart field \"file\" is required"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	return f, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Split failed")
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, scope2.ErrInvalidMapping),
		errors.Is(err, scope2.ErrUnreadableWorkbook),
		errors.Is(err, scope2.ErrSheetNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
