package tables

import "fmt"

// InnerJoin joins two tables on left[leftCol] == right[rightCol]. The
// result carries every left column followed by every right column, with
// right-side names that collide with a left column suffixed "_right".
// Output rows follow left-table order; a key matching several right rows
// produces one output row per match.
func InnerJoin(left, right *Table, leftCol, rightCol string) (*Table, error) {
	li, ok := left.Column(leftCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found in left table", leftCol)
	}
	ri, ok := right.Column(rightCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found in right table", rightCol)
	}

	header := append([]string(nil), left.Header...)
	taken := make(map[string]struct{}, len(left.Header))
	for _, name := range left.Header {
		taken[name] = struct{}{}
	}
	for _, name := range right.Header {
		if _, clash := taken[name]; clash {
			name += "_right"
		}
		header = append(header, name)
	}

	byKey := make(map[string][]int)
	for i, row := range right.Rows {
		key := row[ri]
		byKey[key] = append(byKey[key], i)
	}

	var rows [][]string
	for _, lrow := range left.Rows {
		for _, i := range byKey[lrow[li]] {
			row := make([]string, 0, len(header))
			row = append(row, lrow...)
			row = append(row, right.Rows[i]...)
			rows = append(rows, row)
		}
	}
	return New(header, rows), nil
}
