// Package chart draws the resume pie chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gofinances/internal/core"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no category totals to draw")

type Options struct {
	Width  int
	Height int
	// ShowPercent labels slices with the rounded percent instead of the
	// category name.
	ShowPercent bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 512
	}
	if o.Height <= 0 {
		o.Height = 512
	}
	return o
}

// RenderPNG writes a pie chart of totals to w, one slice per category in the
// given order, filled with the category color.
func RenderPNG(w io.Writer, totals []core.CategoryTotal, opts Options) error {
	values := Values(totals, opts.ShowPercent)
	if len(values) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	pie := gochart.PieChart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}
	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// Values converts totals into chart slices. Non-positive totals are skipped.
func Values(totals []core.CategoryTotal, showPercent bool) []gochart.Value {
	values := make([]gochart.Value, 0, len(totals))
	for _, t := range totals {
		if !t.Total.IsPositive() {
			continue
		}
		label := t.Name
		if showPercent {
			label = t.PercentFormatted
		}
		v := gochart.Value{
			Label: label,
			Value: t.Total.InexactFloat64(),
		}
		if t.Color != "" {
			v.Style = gochart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(t.Color, "#")),
				StrokeColor: drawing.ColorWhite,
			}
		}
		values = append(values, v)
	}
	return values
}
