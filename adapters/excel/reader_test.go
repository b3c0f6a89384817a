package excel

import (
	"os"
	"path/filepath"
	"testing"

	"labfit/internal/errors"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSweepReader_CSV(t *testing.T) {
	path := writeCSV(t, "sweep_01.csv",
		"drive,adc_current,adc_voltage\n"+
			"0,0,120\n"+
			"1,210,860\n"+
			"2,430,840\n")

	data, err := NewSweepReader(path).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data.Label != "sweep_01" {
		t.Fatalf("label = %s, want sweep_01", data.Label)
	}
	if len(data.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(data.Samples))
	}
	if data.Samples[1].Drive != 1 || data.Samples[1].CountsCurrent != 210 || data.Samples[1].CountsVoltage != 860 {
		t.Fatalf("sample 1 = %+v, want {1 210 860}", data.Samples[1])
	}
}

func TestSweepReader_SkipsBlankRows(t *testing.T) {
	path := writeCSV(t, "blanks.csv",
		"drive,adc_current,adc_voltage\n"+
			"0,100,800\n"+
			",,\n"+
			"1,200,780\n")

	data, err := NewSweepReader(path).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(data.Samples) != 2 {
		t.Fatalf("got %d samples, want 2 (blank row skipped)", len(data.Samples))
	}
}

func TestSweepReader_Errors(t *testing.T) {
	if _, err := NewSweepReader("/nonexistent/sweep.csv").Read(); !errors.HasCode(err, errors.CodeDataSourceError) {
		t.Fatalf("missing file error = %v, want DATA_SOURCE_ERROR", err)
	}

	headerOnly := writeCSV(t, "header_only.csv", "drive,adc_current,adc_voltage\n")
	if _, err := NewSweepReader(headerOnly).Read(); !errors.HasCode(err, errors.CodeDataSourceError) {
		t.Fatalf("header-only error = %v, want DATA_SOURCE_ERROR", err)
	}

	badCell := writeCSV(t, "bad_cell.csv",
		"drive,adc_current,adc_voltage\n"+
			"0,not-a-number,120\n")
	if _, err := NewSweepReader(badCell).Read(); !errors.HasCode(err, errors.CodeDataSourceError) {
		t.Fatalf("bad cell error = %v, want DATA_SOURCE_ERROR", err)
	}

	narrow := writeCSV(t, "narrow.csv", "drive,adc\n0,1\n")
	if _, err := NewSweepReader(narrow).Read(); !errors.HasCode(err, errors.CodeDataSourceError) {
		t.Fatalf("narrow header error = %v, want DATA_SOURCE_ERROR", err)
	}
}
