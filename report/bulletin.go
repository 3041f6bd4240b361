// Package report writes extracted event graphs as XLSX bulletins.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sc3stuff/sc3stuff/datamodel"
	"github.com/sc3stuff/sc3stuff/format"
	"github.com/sc3stuff/sc3stuff/graph"
)

// Sheet names, one per kind.
const (
	SheetEvents          = "Events"
	SheetOrigins         = "Origins"
	SheetPicks           = "Picks"
	SheetAmplitudes      = "Amplitudes"
	SheetFocalMechanisms = "FocalMechanisms"
)

// Sheets lists the bulletin sheets in workbook order.
var Sheets = []string{SheetEvents, SheetOrigins, SheetPicks, SheetAmplitudes, SheetFocalMechanisms}

var headers = map[string][]string{
	SheetEvents:          {"publicID", "preferredOriginID", "preferredMagnitudeID", "type", "description"},
	SheetOrigins:         {"publicID", "time", "latitude", "longitude", "depth", "evaluationMode", "evaluationStatus", "arrivals", "magnitudes"},
	SheetPicks:           {"publicID", "time", "stream", "phaseHint", "evaluationMode", "automatic"},
	SheetAmplitudes:      {"publicID", "pickID", "type", "amplitude", "snr", "stream"},
	SheetFocalMechanisms: {"publicID", "triggeringOriginID", "strike1", "dip1", "rake1", "strike2", "dip2", "rake2"},
}

// WriteBulletin writes x to an XLSX workbook at path. Each sheet starts
// with a header row followed by one row per object in publicID order.
// Times carry digits fractional digits.
func WriteBulletin(path string, x *graph.Extraction, digits int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetEvents); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, sheet := range Sheets[1:] {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	rows := map[string][][]any{
		SheetEvents:          eventRows(x),
		SheetOrigins:         originRows(x, digits),
		SheetPicks:           pickRows(x, digits),
		SheetAmplitudes:      amplitudeRows(x),
		SheetFocalMechanisms: focalMechanismRows(x),
	}

	for _, sheet := range Sheets {
		header := make([]any, len(headers[sheet]))
		for i, h := range headers[sheet] {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
		for i, row := range rows[sheet] {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving bulletin: %w", err)
	}
	return nil
}

func eventRows(x *graph.Extraction) [][]any {
	var rows [][]any
	for _, id := range graph.SortedIDs(x.Events) {
		ev := x.Events[id]
		var desc string
		if len(ev.Descriptions) > 0 {
			desc = ev.Descriptions[0].Text
		}
		rows = append(rows, []any{ev.PublicID, ev.PreferredOriginID, ev.PreferredMagnitudeID, ev.Type, desc})
	}
	return rows
}

func originRows(x *graph.Extraction, digits int) [][]any {
	var rows [][]any
	for _, id := range graph.SortedIDs(x.Origins) {
		o := x.Origins[id]
		var depth any
		if o.Depth != nil {
			depth = o.Depth.Value
		}
		mags := make([]string, 0, len(o.Magnitudes))
		for _, m := range o.Magnitudes {
			mags = append(mags, fmt.Sprintf("%s %.1f", m.Type, m.Magnitude.Value))
		}
		rows = append(rows, []any{
			o.PublicID, format.StreamTime(o.Time.Value, digits),
			o.Latitude.Value, o.Longitude.Value, depth,
			o.EvaluationMode.String(), string(o.EvaluationStatus),
			len(o.Arrivals), strings.Join(mags, ", "),
		})
	}
	return rows
}

func pickRows(x *graph.Extraction, digits int) [][]any {
	var rows [][]any
	for _, id := range graph.SortedIDs(x.Picks) {
		p := x.Picks[id]
		rows = append(rows, []any{
			p.PublicID, format.StreamTime(p.Time.Value, digits), format.Dotted(p.WaveformID),
			p.PhaseHint, p.EvaluationMode.String(), strconv.FormatBool(graph.IsAutomatic(p)),
		})
	}
	return rows
}

func amplitudeRows(x *graph.Extraction) [][]any {
	var rows [][]any
	for _, id := range graph.SortedIDs(x.Amplitudes) {
		a := x.Amplitudes[id]
		var value, snr any
		if a.Amplitude != nil {
			value = a.Amplitude.Value
		}
		if a.SNR != nil {
			snr = *a.SNR
		}
		rows = append(rows, []any{a.PublicID, a.PickID, a.Type, value, snr, format.Dotted(a.WaveformID)})
	}
	return rows
}

func focalMechanismRows(x *graph.Extraction) [][]any {
	var rows [][]any
	for _, id := range graph.SortedIDs(x.FocalMechanisms) {
		fm := x.FocalMechanisms[id]
		row := []any{fm.PublicID, fm.TriggeringOriginID}
		var np1, np2 *datamodel.NodalPlane
		if fm.NodalPlanes != nil {
			np1, np2 = fm.NodalPlanes.NodalPlane1, fm.NodalPlanes.NodalPlane2
		}
		row = append(row, planeCells(np1)...)
		row = append(row, planeCells(np2)...)
		rows = append(rows, row)
	}
	return rows
}

func planeCells(np *datamodel.NodalPlane) []any {
	if np == nil {
		return []any{nil, nil, nil}
	}
	return []any{np.Strike.Value, np.Dip.Value, np.Rake.Value}
}
