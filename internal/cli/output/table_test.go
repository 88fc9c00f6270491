package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, f *TableFormatter, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return buf.String()
}

func TestTableFormatter_Table(t *testing.T) {
	table := &Table{
		Headers: []string{"NAME", "VALUE"},
		Rows:    [][]string{{"engine", "file"}, {"tokens_file", "tokens.json"}},
	}

	out := render(t, &TableFormatter{}, table)
	if !strings.HasPrefix(out, "NAME") || !strings.Contains(out, "tokens.json") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out = render(t, &TableFormatter{}, *table)
	if !strings.Contains(out, "engine") {
		t.Errorf("Table value not rendered:\n%s", out)
	}

	out = render(t, &TableFormatter{NoHeaders: true}, table)
	if strings.Contains(out, "NAME") {
		t.Errorf("NoHeaders output contains header:\n%s", out)
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	if out := render(t, &TableFormatter{}, nil); out != "" {
		t.Errorf("Format(nil) = %q, want empty", out)
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	out := render(t, &TableFormatter{}, sampleRows())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if fields := strings.Fields(lines[0]); !reflect.DeepEqual(fields, []string{"ID", "PATH", "EXPIRES_AT", "EXPIRED"}) {
		t.Errorf("headers = %v", fields)
	}
	if !strings.Contains(lines[1], "2026-10-15 09:30:00Z") {
		t.Errorf("row = %q, want formatted expiry", lines[1])
	}
	if strings.Contains(out, "SIZE") {
		t.Error("wide-only column shown without Wide")
	}
}

func TestTableFormatter_SliceWide(t *testing.T) {
	out := render(t, &TableFormatter{Wide: true}, sampleRows())
	if !strings.Contains(out, "SIZE") || !strings.Contains(out, "2048") {
		t.Errorf("wide column missing:\n%s", out)
	}
}

func TestTableFormatter_PointerSlice(t *testing.T) {
	rows := sampleRows()
	out := render(t, &TableFormatter{}, []*linkRow{&rows[0], nil, &rows[1]})
	if strings.Count(out, "\n") != 3 {
		t.Errorf("nil elements should be skipped:\n%s", out)
	}
}

func TestTableFormatter_EmptySlice(t *testing.T) {
	out := render(t, &TableFormatter{}, []linkRow{})
	if strings.TrimSpace(out) != strings.Join([]string{"ID", "PATH", "EXPIRES_AT", "EXPIRED"}, "  ") {
		t.Errorf("empty slice output = %q", out)
	}
}

func TestTableFormatter_Map(t *testing.T) {
	out := render(t, &TableFormatter{}, map[string]int{"zeta": 1, "alpha": 2})
	alpha, zeta := strings.Index(out, "alpha"), strings.Index(out, "zeta")
	if alpha < 0 || zeta < 0 || alpha > zeta {
		t.Errorf("map rows not sorted by key:\n%s", out)
	}
}

func TestTableFormatter_SingleStruct(t *testing.T) {
	out := render(t, &TableFormatter{}, sampleRows()[0])
	if !strings.HasPrefix(out, "FIELD") || !strings.Contains(out, "downloads/report.pdf") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTableFormatter_ScalarFallsBackToJSON(t *testing.T) {
	if out := render(t, &TableFormatter{}, 42); strings.TrimSpace(out) != "42" {
		t.Errorf("Format(42) = %q", out)
	}
}

func TestTable_AddRowAndHeaders(t *testing.T) {
	var table Table
	table.SetHeaders("A", "B")
	table.AddRow("1", "2")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "A  B\n1  2\n" {
		t.Errorf("Render() = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	s := "pointer value"
	var nilPtr *string
	var iface any = "interface value"

	tests := []struct {
		name  string
		input reflect.Value
		want  string
	}{
		{"string", reflect.ValueOf("hello"), "hello"},
		{"empty string", reflect.ValueOf(""), "-"},
		{"int", reflect.ValueOf(42), "42"},
		{"bool", reflect.ValueOf(true), "true"},
		{"float", reflect.ValueOf(1.5), "1.50"},
		{"duration", reflect.ValueOf(90 * time.Minute), "1h30m0s"},
		{"time", reflect.ValueOf(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)), "2024-06-15 14:30:00Z"},
		{"zero time", reflect.ValueOf(time.Time{}), "-"},
		{"empty slice", reflect.ValueOf([]string{}), "-"},
		{"slice", reflect.ValueOf([]int{1, 2}), "[2 items]"},
		{"map", reflect.ValueOf(map[string]int{"a": 1}), "{1 keys}"},
		{"pointer", reflect.ValueOf(&s), "pointer value"},
		{"nil pointer", reflect.ValueOf(nilPtr), ""},
		{"interface", reflect.ValueOf(&iface).Elem(), "interface value"},
		{"invalid", reflect.Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.input); got != tt.want {
				t.Errorf("formatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ID":        "i_d",
		"Path":      "path",
		"ExpiresAt": "expires_at",
		"already":   "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
