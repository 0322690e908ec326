package handlers

import (
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"time"

	"soil-nutrient-service/internal/adapters/primary/http/dto"
	"soil-nutrient-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"num": func(v float64) string { return formatValue(v) },
}).ParseFS(templateFS, "templates/*.tmpl"))

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type chartImage struct {
	Kind  domain.Chart
	Title string
	Src   template.URL
}

type dashboardPage struct {
	Variant   *domain.Variant
	Model     domain.ModelStatus
	Date      string
	Time      string
	Impedance string
	Warning   string
	Error     string
	Success   string
	Table     *domain.Table
	Warnings  []string
	Charts    []chartImage
}

type indexPage struct {
	Variants []dto.VariantResponse
}

var chartTitles = map[domain.Chart]string{
	domain.ChartBar:   "Bar Chart - Predicted Soil Nutrients",
	domain.ChartLine:  "Line Chart - Predicted Soil Nutrients",
	domain.ChartRadar: "Radar Chart - Soil Nutrient Composition",
}

func (h *Handler) Index(c *gin.Context) {
	variants := h.dashboardSvc.Variants()
	page := indexPage{Variants: make([]dto.VariantResponse, 0, len(variants))}
	for _, v := range variants {
		status, _ := h.dashboardSvc.Status(v.Name)
		page.Variants = append(page.Variants, dto.ToVariantResponse(v, status))
	}
	c.HTML(http.StatusOK, "index.tmpl", page)
}

func (h *Handler) ShowDashboard(c *gin.Context) {
	page, err := h.newDashboardPage(c.Param("variant"))
	if err != nil {
		h.renderPageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", page)
}

func (h *Handler) SubmitDashboard(c *gin.Context) {
	name := c.Param("variant")
	page, err := h.newDashboardPage(name)
	if err != nil {
		h.renderPageError(c, err)
		return
	}
	page.Impedance = c.PostForm("impedance")

	// The load error banner is already on the page; nothing else to do.
	if !page.Model.Available {
		c.HTML(http.StatusServiceUnavailable, "dashboard.tmpl", page)
		return
	}

	report, err := h.dashboardSvc.Predict(c.Request.Context(), name, page.Impedance)
	switch {
	case errors.Is(err, domain.ErrEmptyImpedance):
		page.Warning = err.Error()
		c.HTML(http.StatusOK, "dashboard.tmpl", page)
		return
	case err != nil:
		_ = c.Error(err)
		page.Error = "An error occurred during prediction: " + err.Error()
		c.HTML(statusFor(err), "dashboard.tmpl", page)
		return
	}

	table := report.Table()
	page.Table = &table
	page.Warnings = report.Warnings
	page.Success = dto.SuccessMessage
	page.Charts = h.renderCharts(page.Variant, report)

	c.HTML(http.StatusOK, "dashboard.tmpl", page)
}

func (h *Handler) newDashboardPage(name string) (*dashboardPage, error) {
	v, err := h.dashboardSvc.Variant(name)
	if err != nil {
		return nil, err
	}
	status, err := h.dashboardSvc.Status(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &dashboardPage{
		Variant: v,
		Model:   status,
		Date:    now.Format(dateLayout),
		Time:    now.Format(timeLayout),
	}, nil
}

// renderCharts draws every enabled chart as an inline data URI. A chart that
// fails to render is logged and left out; the table still shows.
func (h *Handler) renderCharts(v *domain.Variant, report *domain.Report) []chartImage {
	var out []chartImage
	for _, kind := range v.Charts {
		if kind == domain.ChartTable {
			continue
		}
		img, err := h.charts.Render(kind, report)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"variant": v.Name,
				"chart":   kind,
			}).Warn("failed to render chart")
			continue
		}
		src := "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		out = append(out, chartImage{
			Kind:  kind,
			Title: chartTitles[kind],
			Src:   template.URL(src),
		})
	}
	return out
}

func (h *Handler) renderPageError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.HTML(statusFor(err), "error.tmpl", gin.H{
		"Status":  statusFor(err),
		"Message": errorMessage(err),
	})
}
