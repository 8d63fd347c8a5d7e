package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/table"
)

type filterQuery struct {
	Year     int      `query:"year" validate:"omitempty,gte=1900,lte=2100"`
	Offense  []string `query:"offense" validate:"dive,max=256"`
	Street   []string `query:"street" validate:"dive,max=256"`
	MinCount int      `query:"min_count" validate:"gte=0,lte=100000"`
}

type errorBody struct {
	Error string `json:"error"`
}

// filters binds and validates the query. A multi-select parameter that is
// absent selects everything; one present with only blank values is an
// empty selection. Several values are passed as repeated keys.
func (s *Server) filters(c echo.Context) (dashboard.Filters, error) {
	q := new(filterQuery)
	if err := c.Bind(q); err != nil {
		return dashboard.Filters{}, err
	}
	if err := c.Validate(q); err != nil {
		return dashboard.Filters{}, err
	}
	params := c.QueryParams()
	f := dashboard.Filters{
		Year:     q.Year,
		Offenses: selection(params, "offense"),
		Streets:  selection(params, "street"),
		MinCount: q.MinCount,
	}
	if _, ok := params["year"]; !ok {
		f.Year = s.defaults.Year
	}
	if _, ok := params["min_count"]; !ok {
		f.MinCount = s.defaults.MinCount
	}
	return f, nil
}

func selection(params map[string][]string, key string) table.Selection {
	raw, ok := params[key]
	if !ok {
		return table.All()
	}
	return table.ParseSelection(raw)
}

func (s *Server) handleOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, struct {
		dashboard.Options
		Defaults Defaults `json:"defaults"`
	}{s.dash.Options(), s.defaults})
}

func (s *Server) handleCharts(c echo.Context) error {
	f, err := s.filters(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request params"})
	}
	v, err := s.dash.Render(c.Request().Context(), f)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (s *Server) handleFlow(c echo.Context) error {
	f, err := s.filters(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request params"})
	}
	g, err := s.dash.Flow(c.Request().Context(), f)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) renderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dashboard.ErrEmptySelection):
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, context.Canceled):
		return c.NoContent(http.StatusRequestTimeout)
	}
	s.log.Error("render failed", "err", err, "uri", c.Request().RequestURI)
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
}
