// Package report renders detection details for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = 2

// metricTable lists labelled values. Labels are left-aligned and values
// right-aligned, both measured in terminal cells.
type metricTable struct {
	header [2]string
	rows   [][2]string
}

func newMetricTable(label, value string) *metricTable {
	return &metricTable{header: [2]string{label, value}}
}

func (t *metricTable) add(label, value string) {
	t.rows = append(t.rows, [2]string{label, value})
}

func (t *metricTable) addScore(label string, v float64) {
	t.add(label, fmt.Sprintf("%.4f", v))
}

func (t *metricTable) lines() []string {
	all := append([][2]string{t.header}, t.rows...)
	labelWidth, valueWidth := 0, 0
	for _, row := range all {
		labelWidth = max(labelWidth, runewidth.StringWidth(row[0]))
		valueWidth = max(valueWidth, runewidth.StringWidth(row[1]))
	}

	lines := make([]string, 0, len(all))
	for _, row := range all {
		gap := labelWidth - runewidth.StringWidth(row[0]) + columnGap +
			valueWidth - runewidth.StringWidth(row[1])
		lines = append(lines, strings.TrimRight(row[0]+strings.Repeat(" ", gap)+row[1], " "))
	}
	return lines
}

func (t *metricTable) writeTo(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
