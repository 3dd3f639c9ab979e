package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp CSV: %v", err)
	}
	return path
}

func TestReadObservations_CSV(t *testing.T) {
	path := writeTempCSV(t, "block,treatment,value\nb1,t1,10.5\nb1,t2,14\n\nb2,t1,11\nb2,t2,15\n")

	reader := NewDataReader(path)
	observations, err := reader.ReadObservations(context.Background())
	if err != nil {
		t.Fatalf("ReadObservations failed: %v", err)
	}

	if len(observations) != 4 {
		t.Fatalf("Expected 4 observations (blank row skipped), got %d", len(observations))
	}
	if observations[0].Block != "b1" || observations[0].Treatment != "t1" || observations[0].Value != 10.5 {
		t.Errorf("First observation = %+v", observations[0])
	}
	if observations[3].Block != "b2" || observations[3].Value != 15 {
		t.Errorf("Last observation = %+v", observations[3])
	}
}

func TestReadObservations_CSVHeaderOrder(t *testing.T) {
	// Columns out of positional order are located by header name.
	path := writeTempCSV(t, "value,block,treatment\n10,b1,t1\n14,b1,t2\n")

	reader := NewDataReader(path)
	observations, err := reader.ReadObservations(context.Background())
	if err != nil {
		t.Fatalf("ReadObservations failed: %v", err)
	}

	if observations[0].Block != "b1" || observations[0].Value != 10 {
		t.Errorf("Header mapping failed: %+v", observations[0])
	}
}

func TestReadObservations_RejectsNonNumericValue(t *testing.T) {
	path := writeTempCSV(t, "block,treatment,value\nb1,t1,ten\n")

	reader := NewDataReader(path)
	if _, err := reader.ReadObservations(context.Background()); err == nil {
		t.Error("Expected error for non-numeric value")
	}
}

func TestReadObservations_RejectsHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "block,treatment,value\n")

	reader := NewDataReader(path)
	if _, err := reader.ReadObservations(context.Background()); err == nil {
		t.Error("Expected error for a file without data rows")
	}
}

func TestReadObservations_MissingFile(t *testing.T) {
	reader := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := reader.ReadObservations(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadObservations_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"block", "treatment", "value"},
		{"b1", "t1", 10},
		{"b1", "t2", 14},
		{"b2", "t1", 11},
		{"b2", "t2", 15},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	reader := NewDataReader(path)
	observations, err := reader.ReadObservations(context.Background())
	if err != nil {
		t.Fatalf("ReadObservations failed: %v", err)
	}

	if len(observations) != 4 {
		t.Fatalf("Expected 4 observations, got %d", len(observations))
	}
	if observations[2].Block != "b2" || observations[2].Treatment != "t1" || observations[2].Value != 11 {
		t.Errorf("Third observation = %+v", observations[2])
	}
}

func TestReadObservations_ExcelShortRow(t *testing.T) {
	// With the value column first, a sheet row whose trailing block and
	// treatment cells are empty comes back from excelize with only the
	// value cell. It must be rejected as short, not indexed past.
	path := filepath.Join(t.TempDir(), "short.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"value", "block", "treatment"},
		{10, "b1", "t1"},
		{14},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	reader := NewDataReader(path)
	if _, err := reader.ReadObservations(context.Background()); err == nil {
		t.Error("Expected error for a row missing block and treatment cells")
	}
}
