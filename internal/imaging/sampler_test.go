package imaging

import (
	"errors"
	"testing"
)

func TestBands(t *testing.T) {
	tests := []struct {
		steps     int
		wantFirst Band
		wantLast  Band
	}{
		{2, Band{0, 0, 128}, Band{1, 128, 255}},
		{4, Band{0, 0, 64}, Band{3, 192, 255}},
		{10, Band{0, 0, 25}, Band{9, 225, 250}},
		{256, Band{0, 0, 1}, Band{255, 255, 255}},
	}

	for _, tt := range tests {
		bands, err := Bands(tt.steps)
		if err != nil {
			t.Fatalf("Bands(%d) failed: %v", tt.steps, err)
		}
		if len(bands) != tt.steps {
			t.Errorf("Bands(%d): got %d bands", tt.steps, len(bands))
		}
		if bands[0] != tt.wantFirst {
			t.Errorf("Bands(%d)[0] = %+v, want %+v", tt.steps, bands[0], tt.wantFirst)
		}
		if last := bands[len(bands)-1]; last != tt.wantLast {
			t.Errorf("Bands(%d)[last] = %+v, want %+v", tt.steps, last, tt.wantLast)
		}
		for i := 1; i < len(bands); i++ {
			if bands[i].Min != bands[i-1].Max {
				t.Errorf("Bands(%d): gap between band %d and %d", tt.steps, i-1, i)
			}
		}
	}
}

func TestBands_InvalidSteps(t *testing.T) {
	for _, steps := range []int{-1, 0, 1, 257} {
		if _, err := Bands(steps); err == nil {
			t.Errorf("Bands(%d): expected error", steps)
		}
	}
}

func TestBand_Contains(t *testing.T) {
	b := Band{Index: 3, Min: 192, Max: 255}
	if !b.Contains(192) || !b.Contains(254) {
		t.Error("band should contain its lower bound and 254")
	}
	if b.Contains(255) || b.Contains(191) {
		t.Error("band should not contain 255 or 191")
	}
}

// checkBandRecords asserts the invariants every band sampler result keeps.
func checkBandRecords(t *testing.T, p *Pixels, records []ColorRecord, steps int) {
	t.Helper()

	if len(records) > steps {
		t.Fatalf("got %d records for %d steps", len(records), steps)
	}
	bands, _ := Bands(steps)
	for i, rec := range records {
		if rec.Index != i+1 {
			t.Errorf("record %d: Index %d, want %d", i, rec.Index, i+1)
		}
		if i > 0 && rec.Band <= records[i-1].Band {
			t.Errorf("record %d: band %d not after %d", i, rec.Band, records[i-1].Band)
		}
		if !bands[rec.Band].Contains(rec.HSV.V) {
			t.Errorf("record %d: value %d outside band %+v", i, rec.HSV.V, bands[rec.Band])
		}
		if p.RGB[rec.Source] != rec.RGB {
			t.Errorf("record %d: color %v is not the source pixel", i, rec.RGB)
		}
	}
}

func TestSampleBands_FourBands(t *testing.T) {
	p := mustPixels(t, 2, 2,
		RGBColor{200, 0, 0},
		RGBColor{0, 100, 0},
		RGBColor{0, 0, 30},
		RGBColor{150, 150, 150},
	)
	hist := BuildHueHistogram(p, DefaultHistogramOptions())

	records, err := SampleBands(p, hist, 4)
	if err != nil {
		t.Fatalf("SampleBands failed: %v", err)
	}
	checkBandRecords(t, p, records, 4)

	// V: 30 -> band 0, 100 -> band 1, 150 -> band 2, 200 -> band 3
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	wantBands := []int{0, 1, 2, 3}
	for i, rec := range records {
		if rec.Band != wantBands[i] {
			t.Errorf("record %d: band %d, want %d", i, rec.Band, wantBands[i])
		}
	}
}

func TestSampleBands_FullValuePixelsExcluded(t *testing.T) {
	// Every pixel has V = 255, which lies outside every band.
	p := mustPixels(t, 2, 2,
		RGBColor{255, 0, 0},
		RGBColor{0, 255, 0},
		RGBColor{0, 0, 255},
		RGBColor{255, 255, 255},
	)
	hist := BuildHueHistogram(p, DefaultHistogramOptions())

	records, err := SampleBands(p, hist, 4)
	if err != nil {
		t.Fatalf("SampleBands failed: %v", err)
	}
	checkBandRecords(t, p, records, 4)
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestSampleBands_PicksDominantHue(t *testing.T) {
	// Band 2 holds one red pixel and three green ones of equal value; green
	// dominates the histogram.
	p := mustPixels(t, 4, 1,
		RGBColor{150, 0, 0},
		RGBColor{0, 150, 0},
		RGBColor{0, 140, 0},
		RGBColor{0, 160, 0},
	)
	hist := BuildHueHistogram(p, DefaultHistogramOptions())

	records, err := SampleBands(p, hist, 4)
	if err != nil {
		t.Fatalf("SampleBands failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	// All greens share bucket 60; the first in scan order wins the tie.
	if records[0].Source != 1 {
		t.Errorf("Source: got %d, want 1", records[0].Source)
	}
	if records[0].Mode != ModeHueWeighted {
		t.Errorf("Mode: got %v", records[0].Mode)
	}
}

func TestSampleBands_SolidColor(t *testing.T) {
	c := RGBColor{10, 90, 140}
	p := solidPixels(t, 8, 8, c)
	hist := BuildHueHistogram(p, DefaultHistogramOptions())

	for _, steps := range []int{2, 3, 10, 64, 256} {
		records, err := SampleBands(p, hist, steps)
		if err != nil {
			t.Fatalf("steps %d: %v", steps, err)
		}
		if len(records) != 1 {
			t.Fatalf("steps %d: got %d records, want 1", steps, len(records))
		}
		if records[0].RGB != c {
			t.Errorf("steps %d: got %v, want %v", steps, records[0].RGB, c)
		}
	}
}

func TestSampleUniform_FewColors(t *testing.T) {
	p := mustPixels(t, 3, 2,
		RGBColor{10, 10, 10},
		RGBColor{200, 0, 0},
		RGBColor{10, 10, 10},
		RGBColor{0, 0, 90},
		RGBColor{200, 0, 0},
		RGBColor{0, 0, 90},
	)

	records, err := SampleUniform(p, 10)
	if err != nil {
		t.Fatalf("SampleUniform failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := []RGBColor{{10, 10, 10}, {0, 0, 90}, {200, 0, 0}}
	for i, rec := range records {
		if rec.RGB != want[i] {
			t.Errorf("record %d: got %v, want %v", i, rec.RGB, want[i])
		}
		if rec.Band != -1 || rec.Mode != ModeUniform {
			t.Errorf("record %d: Band %d Mode %v", i, rec.Band, rec.Mode)
		}
		if rec.Index != i+1 {
			t.Errorf("record %d: Index %d", i, rec.Index)
		}
	}
}

func TestSampleUniform_Stride(t *testing.T) {
	// 20 grays with values 0, 10, ..., 190
	rgb := make([]RGBColor, 20)
	for i := range rgb {
		v := uint8(i * 10)
		rgb[i] = RGBColor{v, v, v}
	}
	p := mustPixels(t, 20, 1, rgb...)

	records, err := SampleUniform(p, 4)
	if err != nil {
		t.Fatalf("SampleUniform failed: %v", err)
	}

	// stride = 20/4 = 5
	wantValues := []uint8{0, 50, 100, 150}
	if len(records) != len(wantValues) {
		t.Fatalf("got %d records, want %d", len(records), len(wantValues))
	}
	for i, rec := range records {
		if rec.HSV.V != wantValues[i] {
			t.Errorf("record %d: V %d, want %d", i, rec.HSV.V, wantValues[i])
		}
		if rec.Source != i*5 {
			t.Errorf("record %d: Source %d, want %d", i, rec.Source, i*5)
		}
	}
}

func TestSampleUniform_NeverFabricates(t *testing.T) {
	p := FromImage(createPatternImage(16, 16))
	present := make(map[RGBColor]bool)
	for _, c := range p.RGB {
		present[c] = true
	}

	for _, steps := range []int{2, 3, 4, 10, 256} {
		records, err := SampleUniform(p, steps)
		if err != nil {
			t.Fatalf("steps %d: %v", steps, err)
		}
		if len(records) > steps || len(records) > len(present) {
			t.Errorf("steps %d: got %d records", steps, len(records))
		}
		for _, rec := range records {
			if !present[rec.RGB] {
				t.Errorf("steps %d: color %v not in image", steps, rec.RGB)
			}
		}
	}
}

func TestDistinctColors(t *testing.T) {
	got := distinctColors([]RGBColor{
		{0, 0, 2}, {1, 0, 0}, {0, 0, 2}, {0, 1, 0}, {1, 0, 0},
	})
	want := []RGBColor{{0, 0, 2}, {0, 1, 0}, {1, 0, 0}}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSample_Dispatch(t *testing.T) {
	p := solidPixels(t, 2, 2, RGBColor{50, 60, 70})

	if _, err := Sample(p, nil, 4, ModeHueWeighted); err == nil {
		t.Error("hue-weighted sampling without histogram should fail")
	}
	if _, err := Sample(p, nil, 4, SampleMode(9)); err == nil {
		t.Error("unknown mode should fail")
	}

	records, err := Sample(p, nil, 4, ModeUniform)
	if err != nil || len(records) != 1 {
		t.Errorf("uniform: got %d records, err %v", len(records), err)
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(true) != ModeHueWeighted || ModeFor(false) != ModeUniform {
		t.Error("ModeFor mapping is wrong")
	}
	if ModeHueWeighted.String() != "hue-weighted" || ModeUniform.String() != "uniform" {
		t.Error("SampleMode names are wrong")
	}
}

func TestErrNoColors_FromComposeGrid(t *testing.T) {
	_, _, err := ComposeGrid(nil, DefaultGridLayout())
	if !errors.Is(err, ErrNoColors) {
		t.Errorf("got %v, want ErrNoColors", err)
	}
}
