package runtime

import (
	"strings"
	"testing"
)

func sampleFrame(t *testing.T) *DataFrame {
	t.Helper()

	df, err := NewDataFrame([]Column{
		{Name: "age", Values: []Value{Integer{Val: 10}, Integer{Val: 20}, Integer{Val: 30}}},
		{Name: "name", Values: []Value{Str{Val: "a"}, Str{Val: "b"}, Str{Val: "c"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return df
}

func TestNewDataFrameRejectsRaggedColumns(t *testing.T) {
	_, err := NewDataFrame([]Column{
		{Name: "a", Values: []Value{Integer{Val: 1}}},
		{Name: "b", Values: []Value{Integer{Val: 1}, Integer{Val: 2}}},
	})
	if err == nil {
		t.Fatal("ragged columns must be rejected")
	}
}

func TestDataFrameFilterReceivesRow(t *testing.T) {
	df := sampleFrame(t)

	filtered, err := df.Filter(func(args ...Value) (Value, error) {
		row := args[0].(*Object)
		age, _ := row.Get("age")
		return Bool{Val: age.(Integer).Val > 15}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if filtered.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", filtered.NumRows())
	}
	col, _ := filtered.Column("name")
	if col.Values[0].(Str).Val != "b" {
		t.Fatalf("first kept row = %v", col.Values[0])
	}
	// Source frame is untouched.
	if df.NumRows() != 3 {
		t.Fatalf("source mutated: rows = %d", df.NumRows())
	}
}

func TestWithColumnScalarMode(t *testing.T) {
	df := sampleFrame(t)

	// Parameter named after an existing column receives that column's values.
	out, err := df.WithColumn("age2", "age", func(args ...Value) (Value, error) {
		return Integer{Val: args[0].(Integer).Val * 2}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	col, ok := out.Column("age2")
	if !ok {
		t.Fatal("age2 column missing")
	}
	if col.Values[2].(Integer).Val != 60 {
		t.Fatalf("age2[2] = %v", col.Values[2])
	}
}

func TestWithColumnRowMode(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.WithColumn("label", "row", func(args ...Value) (Value, error) {
		row := args[0].(*Object)
		name, _ := row.Get("name")
		return Str{Val: name.(Str).Val + "!"}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	col, _ := out.Column("label")
	if col.Values[0].(Str).Val != "a!" {
		t.Fatalf("label[0] = %v", col.Values[0])
	}
}

func TestTransformReplacesColumn(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Transform("age", "age", func(args ...Value) (Value, error) {
		return Integer{Val: args[0].(Integer).Val + 1}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	col, _ := out.Column("age")
	if col.Values[0].(Integer).Val != 11 {
		t.Fatalf("age[0] = %v", col.Values[0])
	}
	if out.NumCols() != df.NumCols() {
		t.Fatalf("transform must not add columns")
	}
}

func TestSelectProjectsColumns(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Select([]string{"name"})
	if err != nil {
		t.Fatal(err)
	}
	if out.NumCols() != 1 || out.Cols[0].Name != "name" {
		t.Fatalf("unexpected projection %+v", out.Cols)
	}

	if _, err := df.Select([]string{"missing"}); err == nil {
		t.Fatal("unknown column must error")
	}
}

func TestDataFrameDisplay(t *testing.T) {
	df := sampleFrame(t)
	got := df.Display()

	if !strings.HasPrefix(got, "shape: (3, 2)") {
		t.Fatalf("display missing shape header: %q", got)
	}
	if !strings.Contains(got, "age") || !strings.Contains(got, `"a"`) {
		t.Fatalf("display missing content: %q", got)
	}
}
