// Package report renders fit reports as markdown text. The numbers live in
// models.FitReport; this package only formats them.
package report

import (
	"fmt"
	"strings"

	"labfit/models"
)

// Markdown renders a fit report as a markdown document
func Markdown(r *models.FitReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fit report: %s\n\n", r.DatasetLabel)
	fmt.Fprintf(&b, "- **Model:** `%s`\n", r.ModelName)
	fmt.Fprintf(&b, "- **Observations:** %d\n", r.Observations)
	fmt.Fprintf(&b, "- **Reduced chi-square:** %.4f\n", r.ReducedChiSquare)
	fmt.Fprintf(&b, "- **Chi-square tail probability:** %.4g\n", r.TailProbability)
	fmt.Fprintf(&b, "- **Fitted:** %s\n\n", r.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Parameters\n\n")
	b.WriteString("| # | Estimate | Std. error |\n")
	b.WriteString("|---|----------|------------|\n")
	for i, p := range r.Params {
		se := 0.0
		if i < len(r.StdErrs) {
			se = r.StdErrs[i]
		}
		fmt.Fprintf(&b, "| p%d | %.6g | %.3g |\n", i, p, se)
	}
	b.WriteString("\n")

	if len(r.Derived) > 0 {
		b.WriteString("## Derived quantities (Monte Carlo)\n\n")
		b.WriteString("| Quantity | Mean | Std. dev | 5% | Median | 95% | Trials | Non-finite |\n")
		b.WriteString("|----------|------|----------|----|--------|-----|--------|------------|\n")
		for _, d := range r.Derived {
			fmt.Fprintf(&b, "| %s | %.6g | %.3g | %.6g | %.6g | %.6g | %d | %d |\n",
				d.Name, d.Mean, d.StdDev, d.Percentile05, d.Median, d.Percentile95, d.SampleCount, d.NonFinite)
		}
		b.WriteString("\n")
	}

	return b.String()
}
