package charts

import (
	"fmt"
	"html"
	"math"
	"strings"
	"sync"
	"time"

	"metricchart/internal/models"
)

const tipTimeFormat = "2006-01-02 15:04:05"

// TooltipState is what the tooltip currently shows
type TooltipState struct {
	Visible bool   `json:"visible"`
	Index   int    `json:"index"`
	Content string `json:"content,omitempty"`
}

// Tooltip is a Tip shared by every shape of a chart; the last Show or Hide wins
type Tooltip struct {
	mu    sync.Mutex
	state TooltipState
}

// NewTooltip creates a hidden tooltip
func NewTooltip() *Tooltip {
	return &Tooltip{}
}

// Show displays the formatted datum
func (t *Tooltip) Show(datum any, index int) {
	content := describe(datum)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TooltipState{Visible: true, Index: index, Content: content}
}

// Hide clears the tooltip
func (t *Tooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = TooltipState{}
}

// State returns a copy of the current tooltip state
func (t *Tooltip) State() TooltipState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func describe(datum any) string {
	var rows [][2]string
	switch d := datum.(type) {
	case models.BucketPoint:
		rows = append(rows, [2]string{"Start", formatTime(d.Start)}, [2]string{"End", formatTime(d.End)})
		if d.IsEmpty() {
			rows = append(rows, [2]string{"Value", "No Data"})
			break
		}
		rows = append(rows,
			[2]string{"Avg", formatValue(d.Avg)},
			[2]string{"Min", formatValue(d.Min)},
			[2]string{"Max", formatValue(d.Max)})
		if d.Samples > 0 {
			rows = append(rows, [2]string{"Samples", fmt.Sprint(d.Samples)})
		}
	case models.PredictivePoint:
		rows = append(rows, [2]string{"Time", formatTime(d.Timestamp)}, [2]string{"Forecast", formatValue(d.Value)})
		if d.Min != nil {
			rows = append(rows, [2]string{"Min", formatValue(*d.Min)})
		}
		if d.Max != nil {
			rows = append(rows, [2]string{"Max", formatValue(*d.Max)})
		}
	default:
		return html.EscapeString(fmt.Sprint(datum))
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "<div class='chartHoverLabel'><small>%s:</small> <span>%s</span></div>", r[0], html.EscapeString(r[1]))
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(tipTimeFormat)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
