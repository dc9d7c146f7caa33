package charts

import (
	"metricchart/internal/models"
	"metricchart/internal/scene"
	"metricchart/internal/shape"
)

// Forecast shape classes
const (
	ClassConeArea     = "coneArea"
	ClassForecastLine = "forecastLine"
)

type forecastSeries = []models.PredictivePoint

// ShowForecastData draws the forecast line and, when the last forecast point
// carries both confidence bounds, the confidence cone around it. Bound presence
// is read from the last point only and applies to the whole series.
func ShowForecastData(forecast []models.PredictivePoint, ctx *RenderContext) {
	if len(forecast) == 0 {
		ctx.SVG.RemoveAll("path."+ClassConeArea, "path."+ClassForecastLine)
		return
	}

	// the whole series is one datum: at most one cone and one line exist
	series := []forecastSeries{forecast}

	if forecast[len(forecast)-1].HasBounds() {
		scene.Reconcile(ctx.SVG, series, "path", func(b *scene.Bound[forecastSeries]) {
			b.ClassConst(ClassConeArea).
				Attr("d", func(d forecastSeries, _ int) string { return coneArea(ctx).Path(d) })
		}, "path."+ClassConeArea)
	} else {
		ctx.SVG.RemoveAll("path." + ClassConeArea)
	}

	scene.Reconcile(ctx.SVG, series, "path", func(b *scene.Bound[forecastSeries]) {
		b.ClassConst(ClassForecastLine).
			Attr("d", func(d forecastSeries, _ int) string { return forecastLine(ctx).Path(d) })
	}, "path."+ClassForecastLine)
}

func coneArea(ctx *RenderContext) shape.Area[models.PredictivePoint] {
	interpolation := ctx.Interpolation
	if interpolation == "" {
		interpolation = shape.Monotone
	}
	return shape.Area[models.PredictivePoint]{
		X:  func(d models.PredictivePoint, _ int) float64 { return ctx.Axis.TimeScale(d.Timestamp) },
		Y0: func(d models.PredictivePoint, _ int) float64 { return ctx.Axis.YScale(*d.Min) },
		Y1: func(d models.PredictivePoint, _ int) float64 { return ctx.Axis.YScale(*d.Max) },
		Defined: func(d models.PredictivePoint, _ int) bool {
			return !d.Empty && d.HasBounds()
		},
		Interpolation: interpolation,
	}
}

func forecastLine(ctx *RenderContext) shape.Line[models.PredictivePoint] {
	return shape.Line[models.PredictivePoint]{
		X:             func(d models.PredictivePoint, _ int) float64 { return ctx.Axis.TimeScale(d.Timestamp) },
		Y:             func(d models.PredictivePoint, _ int) float64 { return ctx.Axis.YScale(d.Value) },
		Interpolation: shape.Monotone,
	}
}
