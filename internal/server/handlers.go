package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/classify"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/extract"
)

const (
	maxTextRunes   = 200_000
	maxCloseDates  = 500
	maxNotesRunes  = 2000
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename = "licitaciones.xlsx"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type ExtractRequest struct {
	Text     string `json:"text"`
	Subject  string `json:"subject,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type ExtractResponse struct {
	Record entity.ExtractedRecord `json:"record"`
	Open   bool                   `json:"open"`
}

type EligibilityRequest struct {
	CloseDates []string `json:"close_dates"`
}

type EligibilityResult struct {
	CloseDate string `json:"close_date"`
	Open      bool   `json:"open"`
}

type EligibilityResponse struct {
	Results []EligibilityResult `json:"results"`
}

type ListResponse struct {
	Items []*entity.Licitacion `json:"items"`
	Count int                  `json:"count"`
}

type ApprovalRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (s *HTTP) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *HTTP) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	v := common.NewValidator().Field("text", req.Text, common.Required, common.MaxLength(maxTextRunes))
	if v.HasErrors() {
		return echo.NewHTTPError(http.StatusBadRequest, v.ErrorMessage())
	}

	rec := s.deps.Extractor.Extract(c.Request().Context(), extract.Input{
		Text:     req.Text,
		Subject:  req.Subject,
		Filename: req.Filename,
	})
	return c.JSON(http.StatusOK, ExtractResponse{
		Record: rec,
		Open:   s.deps.Eligibility.IsOpen(rec.BiddingCloseDate),
	})
}

func (s *HTTP) handleEligibility(c echo.Context) error {
	var req EligibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.CloseDates) > maxCloseDates {
		return echo.NewHTTPError(http.StatusBadRequest, "too many close_dates")
	}
	out := EligibilityResponse{Results: make([]EligibilityResult, 0, len(req.CloseDates))}
	for _, d := range req.CloseDates {
		out.Results = append(out.Results, EligibilityResult{CloseDate: d, Open: s.deps.Eligibility.IsOpen(d)})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *HTTP) handleList(c echo.Context) error {
	if s.deps.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage is disabled")
	}
	f, err := listFilter(c)
	if err != nil {
		return err
	}
	items, err := s.deps.Store.List(c.Request().Context(), f)
	if err != nil {
		return httpError(c, "list", err)
	}
	if items == nil {
		items = []*entity.Licitacion{}
	}
	return c.JSON(http.StatusOK, ListResponse{Items: items, Count: len(items)})
}

func (s *HTTP) handleExport(c echo.Context) error {
	if s.deps.Export == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage is disabled")
	}
	f, err := listFilter(c)
	if err != nil {
		return err
	}
	data, err := s.deps.Export.ExportXLSX(c.Request().Context(), f)
	if err != nil {
		return httpError(c, "export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)
	return c.Blob(http.StatusOK, xlsxMediaType, data)
}

func (s *HTTP) handleApproval(c echo.Context) error {
	if s.deps.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage is disabled")
	}
	var req ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	status, ok := constants.ParseApprovalStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of pending, approved, rejected")
	}
	if v := common.NewValidator().Field("notes", req.Notes, common.MaxLength(maxNotesRunes)); v.HasErrors() {
		return echo.NewHTTPError(http.StatusBadRequest, v.ErrorMessage())
	}
	l, err := s.deps.Store.UpdateApproval(c.Request().Context(), c.Param("emailId"), status, req.Notes)
	if err != nil {
		return httpError(c, "approval", err)
	}
	return c.JSON(http.StatusOK, l)
}

// listFilter reads ?category=&status=&open_only=&limit=.
func listFilter(c echo.Context) (entity.ListFilter, error) {
	var f entity.ListFilter
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		cat, ok := classify.Canonicalize(v)
		if !ok && strings.EqualFold(v, string(constants.Unclassified)) {
			cat, ok = constants.Unclassified, true
		}
		if !ok {
			return f, echo.NewHTTPError(http.StatusBadRequest, "unknown category "+strconv.Quote(v))
		}
		f.Category = cat
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		st, ok := constants.ParseApprovalStatus(strings.ToLower(v))
		if !ok {
			return f, echo.NewHTTPError(http.StatusBadRequest, "unknown status "+strconv.Quote(v))
		}
		f.ApprovalStatus = st
	}
	if v := c.QueryParam("open_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "open_only must be a boolean")
		}
		f.OpenOnly = b
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}
