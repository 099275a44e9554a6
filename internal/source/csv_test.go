package source

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// ============================================================================
// ReadCSV
// ============================================================================

func TestReadCSV(t *testing.T) {
	data := []byte("ID,Asunto\n1,Uno\n2,Dos\n")
	rows, err := ReadCSV(writeTemp(t, "plain.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if v, _ := rows[0].Get("Asunto"); v != "Uno" {
		t.Errorf("rows[0][Asunto] = %q, want %q", v, "Uno")
	}
	if v, _ := rows[1].Get("ID"); v != "2" {
		t.Errorf("rows[1][ID] = %q, want %q", v, "2")
	}
}

func TestReadCSVSkipsEmptyRows(t *testing.T) {
	data := []byte("ID,Asunto\n1,Uno\n,\n\"\",\"\"\n2,Dos\n")
	rows, err := ReadCSV(writeTemp(t, "gaps.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestReadCSVLineNumbers(t *testing.T) {
	// Blank rows are skipped but must not shift the positions of the rows
	// that follow them.
	data := []byte("ID,Asunto\n1,Uno\n,\n2,Dos\n")
	rows, err := ReadCSV(writeTemp(t, "lines.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Line != 2 {
		t.Errorf("rows[0].Line = %d, want 2", rows[0].Line)
	}
	if rows[1].Line != 4 {
		t.Errorf("rows[1].Line = %d, want 4", rows[1].Line)
	}
}

func TestReadCSVUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ID,Asunto\n1,Año nuevo\n")...)
	rows, err := ReadCSV(writeTemp(t, "bom.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}

	// The BOM must not leak into the first header name.
	if v, ok := rows[0].Get("ID"); !ok || v != "1" {
		t.Errorf("Get(ID) = (%q, %v), want (1, true)", v, ok)
	}
	if v, _ := rows[0].Get("Asunto"); v != "Año nuevo" {
		t.Errorf("Get(Asunto) = %q, want %q", v, "Año nuevo")
	}
}

func TestReadCSVLatin1(t *testing.T) {
	// "Descripción" with 0xF3 for ó, as old exports encode it.
	data := []byte("ID,Descripci\xf3n\n1,informaci\xf3n\n")
	rows, err := ReadCSV(writeTemp(t, "latin1.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if v, ok := rows[0].Get("Descripción"); !ok || v != "información" {
		t.Errorf("Get(Descripción) = (%q, %v), want (información, true)", v, ok)
	}
}

func TestReadCSVUTF16LE(t *testing.T) {
	text := "ID,Asunto\n1,Según\n"
	data := []byte{0xFF, 0xFE}
	for _, r := range text {
		var unit [2]byte
		binary.LittleEndian.PutUint16(unit[:], uint16(r))
		data = append(data, unit[:]...)
	}

	rows, err := ReadCSV(writeTemp(t, "utf16.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if v, _ := rows[0].Get("Asunto"); v != "Según" {
		t.Errorf("Get(Asunto) = %q, want %q", v, "Según")
	}
}

func TestReadCSVRaggedRecords(t *testing.T) {
	data := []byte("ID,Asunto,Etapa\n1,Uno\n2,Dos,extra,sobra\n")
	rows, err := ReadCSV(writeTemp(t, "ragged.csv", data))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Has("Etapa") {
		t.Error("short record reports a cell for Etapa")
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	if _, err := ReadCSV(writeTemp(t, "empty.csv", nil)); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
