package timesketch

import (
	"testing"
)

func TestNewEventTableSortsColumns(t *testing.T) {
	table := NewEventTable([]map[string]any{
		{"zulu": 1, "message": "a"},
		{"alpha": true, "message": "b"},
	})

	want := []string{"alpha", "message", "zulu"}
	if len(table.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %v", len(want), table.Columns)
	}
	for i, col := range want {
		if table.Columns[i] != col {
			t.Errorf("column %d: expected %q, got %q", i, col, table.Columns[i])
		}
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}
}

func TestEventTableEmpty(t *testing.T) {
	table := NewEventTable(nil)
	if !table.Empty() {
		t.Error("expected empty table")
	}
	if table.Len() != 0 {
		t.Errorf("expected 0 rows, got %d", table.Len())
	}
}

func TestEventTableDrop(t *testing.T) {
	table := NewEventTable([]map[string]any{
		{"message": "a", "_id": "x1", "_index": "i1", "timestamp": 1.0},
	})

	dropped := table.Drop(InternalColumns...)

	for _, col := range InternalColumns {
		if dropped.HasColumn(col) {
			t.Errorf("column %q should have been dropped", col)
		}
	}
	if !dropped.HasColumn("message") || !dropped.HasColumn("timestamp") {
		t.Errorf("logical columns missing after drop: %v", dropped.Columns)
	}
	if _, ok := dropped.Rows[0]["_id"]; ok {
		t.Error("row still carries _id after drop")
	}

	// Original table is untouched.
	if !table.HasColumn("_id") {
		t.Error("drop modified the source table")
	}
	if _, ok := table.Rows[0]["_id"]; !ok {
		t.Error("drop modified the source rows")
	}
}

func TestEventTableDropToleratesAbsent(t *testing.T) {
	table := NewEventTable([]map[string]any{
		{"message": "a"},
	})

	dropped := table.Drop(InternalColumns...)
	if dropped.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", dropped.Len())
	}
	if !dropped.HasColumn("message") {
		t.Error("message column lost dropping absent columns")
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"hello", "hello"},
		{float64(42), "42"},
		{float64(1.5), "1.5"},
		{float64(1600000000000), "1600000000000"},
		{true, "true"},
		{[]any{"a", "b"}, `["a","b"]`},
	}
	for _, c := range cases {
		if got := FormatCell(c.in); got != c.want {
			t.Errorf("FormatCell(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}
