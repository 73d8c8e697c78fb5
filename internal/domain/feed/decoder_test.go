package feed_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
)

type s08 struct {
	length  int
	marker  byte
	model   string
	variant string
	color   string
	load    string
	chassis string
	engine  string
}

// build lays the fields out at their S08 offsets.
func (l s08) build() string {
	if l.length == 0 {
		l.length = 200
	}
	if l.marker == 0 {
		l.marker = 'B'
	}
	b := []byte(strings.Repeat(" ", l.length))
	b[25] = l.marker
	put := func(off int, v string) {
		if off < len(b) {
			copy(b[off:], v)
		}
	}
	put(27, l.model)
	put(38, l.variant)
	put(45, l.color)
	put(84, l.load)
	put(113, l.chassis)
	put(173, l.engine)
	return string(b)
}

var (
	codes  = mapping.NewCodeMap([]mapping.ProductMapping{{ModelCode: "JF50A", VariantCode: "STD", RealModel: "ACTIVA 6G", RealVariant: "STANDARD"}})
	colors = mapping.NewColorMap([]mapping.ColorCode{{Code: "NH1", Name: "BLACK"}})
)

func TestDecode_LineQualification(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		records int
		skipped int
	}{
		{"179 bytes", s08{length: 179, chassis: "C1"}.build(), 0, 1},
		{"180 bytes wrong marker", s08{length: 180, marker: 'H', chassis: "C1"}.build(), 0, 1},
		{"180 bytes marker", s08{length: 180, chassis: "C1"}.build(), 1, 0},
		{"blank fields", s08{length: 180}.build(), 1, 0},
		{"header", "S08S DISPATCH REPORT", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := feed.Decode(tt.line, "test", codes, colors)
			assert.Len(t, res.Records, tt.records)
			assert.Equal(t, tt.skipped, res.Skipped)
		})
	}
}

func TestDecode_BlankFieldsStillProduceRecord(t *testing.T) {
	res := feed.Decode(s08{length: 180}.build(), "test", codes, colors)

	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Equal(t, "", r.ChassisNo)
	assert.Equal(t, "", r.Model)
	assert.Equal(t, "", r.EngineNo)
	assert.Equal(t, 1, r.Line)
}

func TestDecode_ExtractsAndResolves(t *testing.T) {
	raw := strings.Join([]string{
		"HEADER",
		s08{model: "JF50A", variant: "STD", color: "nh1", load: "LD2403", chassis: "me4jf50a1", engine: "JF50E1234567"}.build(),
		s08{model: "KC08E", variant: "DLX", color: "R334", load: "LD2403", chassis: "ME4KC08E2", engine: "KC08E7654321"}.build(),
		s08{model: "KC08E", variant: "DLX", color: "R334", load: "LD2403", chassis: "ME4KC08E3"}.build(),
		"TRAILER 3",
		"",
	}, "\n")

	res := feed.Decode(raw, "s08.txt", codes, colors)
	assert.Equal(t, "s08.txt", res.Source)
	assert.Equal(t, "LD2403", res.LoadReference)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Records, 3)

	first := res.Records[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "ME4JF50A1", first.ChassisNo)
	assert.Equal(t, "JF50E1234567", first.EngineNo)
	assert.Equal(t, "ACTIVA 6G", first.Model)
	assert.Equal(t, "STANDARD", first.Variant)
	assert.Equal(t, "BLACK", first.Color)
	assert.Equal(t, "JF50A", first.ModelCode)
	assert.Equal(t, "nh1", first.ColorCode)

	second := res.Records[1]
	assert.Equal(t, "KC08E", second.Model, "unmapped pair passes through")
	assert.Equal(t, "DLX", second.Variant)
	assert.Equal(t, "R334", second.Color)

	assert.Equal(t, []mapping.CodeKey{{ModelCode: "KC08E", VariantCode: "DLX"}}, res.Unmapped)
	assert.Equal(t, []string{"R334"}, res.UnmappedColor)
}

func TestDecode_EngineClampedOnShortLine(t *testing.T) {
	line := s08{length: 182, chassis: "C1", engine: "ENGINE123"}.build()

	res := feed.Decode(line, "test", codes, colors)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "ENGINE123", res.Records[0].EngineNo)
}

func TestDecode_CRLF(t *testing.T) {
	short := s08{length: 179, chassis: "C0"}.build()
	good := s08{length: 180, chassis: "C1", load: "LD1"}.build()

	res := feed.Decode(short+"\r\n"+good+"\r\n", "test", codes, colors)
	require.Len(t, res.Records, 1, "a 179 byte line plus CR is still too short")
	assert.Equal(t, "C1", res.Records[0].ChassisNo)
	assert.Equal(t, 1, res.Skipped)
}

func TestPeekLoadReference(t *testing.T) {
	raw := "HEADER\n" + s08{load: "LD-9", chassis: "C1"}.build() + "\n" + s08{load: "LD-10", chassis: "C2"}.build()

	ref, ok := feed.PeekLoadReference(raw)
	assert.True(t, ok)
	assert.Equal(t, "LD-9", ref)

	_, ok = feed.PeekLoadReference("HEADER\nTRAILER")
	assert.False(t, ok)
}

func TestPeekLoadReference_OnlyFirstVehicleLine(t *testing.T) {
	raw := "HEADER\n" + s08{chassis: "C1"}.build() + "\n" + s08{load: "LD-10", chassis: "C2"}.build()

	ref, ok := feed.PeekLoadReference(raw)
	assert.True(t, ok)
	assert.Empty(t, ref)

	res := feed.Decode(raw, "test", codes, colors)
	assert.Empty(t, res.LoadReference)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "LD-10", res.Records[1].LoadReference)
}
