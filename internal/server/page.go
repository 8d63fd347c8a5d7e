package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed web/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

func (s *Server) handleIndex(c echo.Context) error {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		PlotlyURL string
		Defaults  Defaults
	}{s.plotly, s.defaults})
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
