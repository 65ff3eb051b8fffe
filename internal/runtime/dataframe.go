package runtime

import (
	"fmt"
	"strings"
)

// Callback is the shape of a user function the runtime can call back into,
// supplied by the evaluator. Keeping it a plain function type avoids a
// dependency from the value model onto the evaluator.
type Callback func(args ...Value) (Value, error)

// Column is one named column of a DataFrame.
type Column struct {
	Name   string
	Values []Value
}

// DataFrame is a columnar table. All columns hold the same number of rows.
type DataFrame struct {
	Cols []Column
}

// NewDataFrame validates that every column has the same length.
func NewDataFrame(cols []Column) (*DataFrame, error) {
	if len(cols) > 1 {
		n := len(cols[0].Values)
		for _, c := range cols[1:] {
			if len(c.Values) != n {
				return nil, fmt.Errorf(
					"column %q has %d rows, expected %d", c.Name, len(c.Values), n)
			}
		}
	}
	return &DataFrame{Cols: cols}, nil
}

func (*DataFrame) Type() string { return "DataFrame" }

func (df *DataFrame) Display() string { return df.render() }

// NumRows returns the row count.
func (df *DataFrame) NumRows() int {
	if len(df.Cols) == 0 {
		return 0
	}
	return len(df.Cols[0].Values)
}

// NumCols returns the column count.
func (df *DataFrame) NumCols() int { return len(df.Cols) }

// Column returns a column by name.
func (df *DataFrame) Column(name string) (*Column, bool) {
	for i := range df.Cols {
		if df.Cols[i].Name == name {
			return &df.Cols[i], true
		}
	}
	return nil, false
}

// rowObject materializes row i as an object keyed by column name.
func (df *DataFrame) rowObject(i int) *Object {
	row := NewObject("")
	for _, c := range df.Cols {
		row.Set(c.Name, c.Values[i])
	}
	return row
}

// Select returns a new frame containing only the named columns, in the
// requested order.
func (df *DataFrame) Select(names []string) (*DataFrame, error) {
	out := &DataFrame{}
	for _, name := range names {
		col, ok := df.Column(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		out.Cols = append(out.Cols, Column{Name: col.Name, Values: col.Values})
	}
	return out, nil
}

// Filter keeps rows for which the predicate is truthy. The predicate
// receives the whole row as an object.
func (df *DataFrame) Filter(pred Callback) (*DataFrame, error) {
	out := &DataFrame{Cols: make([]Column, len(df.Cols))}
	for i, c := range df.Cols {
		out.Cols[i] = Column{Name: c.Name}
	}

	for i := 0; i < df.NumRows(); i++ {
		keep, err := pred(df.rowObject(i))
		if err != nil {
			return nil, err
		}
		if Truthy(keep) {
			for j, c := range df.Cols {
				out.Cols[j].Values = append(out.Cols[j].Values, c.Values[i])
			}
		}
	}
	return out, nil
}

// WithColumn appends (or replaces) a column computed per row. When the
// callback's parameter is named after an existing column the callback
// receives that column's value; otherwise it receives the row object.
func (df *DataFrame) WithColumn(name, paramName string, fn Callback) (*DataFrame, error) {
	src, scalar := df.Column(paramName)

	values := make([]Value, 0, df.NumRows())
	for i := 0; i < df.NumRows(); i++ {
		var arg Value
		if scalar {
			arg = src.Values[i]
		} else {
			arg = df.rowObject(i)
		}
		v, err := fn(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	out := &DataFrame{Cols: make([]Column, len(df.Cols))}
	copy(out.Cols, df.Cols)
	for i := range out.Cols {
		if out.Cols[i].Name == name {
			out.Cols[i] = Column{Name: name, Values: values}
			return out, nil
		}
	}
	out.Cols = append(out.Cols, Column{Name: name, Values: values})
	return out, nil
}

// Transform replaces the named column with per-value results. The callback
// receives the existing value when its parameter names the column, and the
// row object otherwise.
func (df *DataFrame) Transform(name, paramName string, fn Callback) (*DataFrame, error) {
	col, ok := df.Column(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}

	scalar := paramName == "" || paramName == name

	values := make([]Value, 0, len(col.Values))
	for i, existing := range col.Values {
		var arg Value
		if scalar {
			arg = existing
		} else {
			arg = df.rowObject(i)
		}
		v, err := fn(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	out := &DataFrame{Cols: make([]Column, len(df.Cols))}
	copy(out.Cols, df.Cols)
	for i := range out.Cols {
		if out.Cols[i].Name == name {
			out.Cols[i] = Column{Name: name, Values: values}
			break
		}
	}
	return out, nil
}

// render draws the frame as an aligned table preceded by its shape.
func (df *DataFrame) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shape: (%d, %d)\n", df.NumRows(), df.NumCols())

	if len(df.Cols) == 0 {
		return b.String()
	}

	widths := make([]int, len(df.Cols))
	cells := make([][]string, df.NumRows())
	for j, c := range df.Cols {
		widths[j] = len(c.Name)
	}
	for i := 0; i < df.NumRows(); i++ {
		cells[i] = make([]string, len(df.Cols))
		for j, c := range df.Cols {
			s := displayElement(c.Values[i], make(map[Value]bool))
			cells[i][j] = s
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	writeRow := func(fields []string) {
		for j, f := range fields {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(f)
			b.WriteString(strings.Repeat(" ", widths[j]-len(f)))
		}
		b.WriteString("\n")
	}

	header := make([]string, len(df.Cols))
	rules := make([]string, len(df.Cols))
	for j, c := range df.Cols {
		header[j] = c.Name
		rules[j] = strings.Repeat("-", widths[j])
	}
	writeRow(header)
	writeRow(rules)
	for i := range cells {
		writeRow(cells[i])
	}

	return strings.TrimRight(b.String(), " \n")
}
