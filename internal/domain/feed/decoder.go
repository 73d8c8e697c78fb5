// Package feed reads the manufacturer's fixed-width S08 dispatch file and
// turns it into an inbound batch for the vehicle ledger.
package feed

import (
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

// Record layout of an S08 vehicle line. Offsets are byte positions,
// start inclusive and end exclusive.
const (
	minRecordLen = 180
	markerPos    = 25
	markerByte   = 'B'
)

type field struct {
	start, end int
}

var (
	fieldModel   = field{start: 27, end: 38}
	fieldVariant = field{start: 38, end: 45}
	fieldColor   = field{start: 45, end: 60}
	fieldLoadRef = field{start: 84, end: 97}
	fieldChassis = field{start: 113, end: 130}
	fieldEngine  = field{start: 173, end: 186}
)

// slice cuts f out of a qualifying line. Every field but the engine number
// lies inside minRecordLen; the engine number stops at the line end.
func (f field) slice(line string) string {
	return strings.TrimSpace(line[f.start:min(f.end, len(line))])
}

// Record is one decoded vehicle line.
type Record struct {
	Line          int    `json:"line"`
	ChassisNo     string `json:"chassisNo"`
	EngineNo      string `json:"engineNo"`
	Model         string `json:"model"`
	Variant       string `json:"variant"`
	Color         string `json:"color"`
	ModelCode     string `json:"modelCode"`
	VariantCode   string `json:"variantCode"`
	ColorCode     string `json:"colorCode"`
	LoadReference string `json:"loadReference"`
}

// Item converts the record for an inbound batch.
func (r Record) Item() vehicle.InboundItem {
	return vehicle.InboundItem{
		ChassisNo:     r.ChassisNo,
		EngineNo:      r.EngineNo,
		Model:         r.Model,
		Variant:       r.Variant,
		Color:         r.Color,
		LoadReference: r.LoadReference,
	}
}

// LineIssue is a qualifying line that could not be used.
type LineIssue struct {
	Line      int    `json:"line"`
	ChassisNo string `json:"chassisNo,omitempty"`
	Reason    string `json:"reason"`
}

// DecodeResult is the outcome of decoding one feed.
type DecodeResult struct {
	Source        string            `json:"source"`
	LoadReference string            `json:"loadReference"`
	Records       []Record          `json:"records"`
	Skipped       int               `json:"skipped"`
	Unmapped      []mapping.CodeKey `json:"unmapped,omitempty"`
	UnmappedColor []string          `json:"unmappedColors,omitempty"`
}

// qualifies reports whether a line is a vehicle record.
func qualifies(line string) bool {
	return len(line) >= minRecordLen && line[markerPos] == markerByte
}

// lines splits raw feed text, dropping the CR of CRLF endings.
func lines(raw string) []string {
	out := strings.Split(raw, "\n")
	for i, l := range out {
		out[i] = strings.TrimSuffix(l, "\r")
	}
	return out
}

// PeekLoadReference returns the load reference of the first vehicle line.
// The reference is blank when that line leaves the field empty; later lines
// are not consulted. ok is false when the feed has no vehicle lines.
func PeekLoadReference(raw string) (ref string, ok bool) {
	for _, line := range lines(raw) {
		if qualifies(line) {
			return fieldLoadRef.slice(line), true
		}
	}
	return "", false
}

// Decode parses every qualifying line of raw. Non-qualifying lines are
// counted as skipped. Qualifying lines always decode; blank fields are kept
// blank for the batch to reject. Unknown codes pass through unchanged and
// are listed once each.
func Decode(raw, source string, codes mapping.CodeMap, colors mapping.ColorMap) DecodeResult {
	res := DecodeResult{Source: source}
	seenPair := make(map[mapping.CodeKey]struct{})
	seenColor := make(map[string]struct{})

	for i, line := range lines(raw) {
		n := i + 1
		if !qualifies(line) {
			if strings.TrimSpace(line) != "" {
				res.Skipped++
			}
			continue
		}

		rec := decodeLine(line)
		rec.Line = n

		model, variant, ok := codes.Resolve(rec.ModelCode, rec.VariantCode)
		rec.Model, rec.Variant = model, variant
		if !ok {
			key := mapping.CodeKey{ModelCode: rec.ModelCode, VariantCode: rec.VariantCode}
			if _, seen := seenPair[key]; !seen {
				seenPair[key] = struct{}{}
				res.Unmapped = append(res.Unmapped, key)
			}
		}
		color, ok := colors.Resolve(rec.ColorCode)
		rec.Color = color
		if !ok {
			if _, seen := seenColor[rec.ColorCode]; !seen {
				seenColor[rec.ColorCode] = struct{}{}
				res.UnmappedColor = append(res.UnmappedColor, rec.ColorCode)
			}
		}

		if len(res.Records) == 0 {
			res.LoadReference = rec.LoadReference
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func decodeLine(line string) Record {
	return Record{
		ModelCode:     fieldModel.slice(line),
		VariantCode:   fieldVariant.slice(line),
		ColorCode:     fieldColor.slice(line),
		LoadReference: fieldLoadRef.slice(line),
		ChassisNo:     vehicle.NormalizeChassis(fieldChassis.slice(line)),
		EngineNo:      fieldEngine.slice(line),
	}
}
