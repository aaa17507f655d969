package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/mat"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "Info: "+format+"\n", a...)
}

// warningf prints a message prefixed with "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "Warning: "+format+"\n", a...)
}

// poseColumns names the local coordinates of a pose with dim degrees of freedom.
func poseColumns(dim int) []string {
	switch dim {
	case 3:
		return []string{"x", "y", "theta"}
	case 6:
		return []string{"wx", "wy", "wz", "vx", "vy", "vz"}
	default:
		cols := make([]string, dim)
		for i := range cols {
			cols[i] = fmt.Sprintf("d%d", i)
		}
		return cols
	}
}

// vectorTable renders named vectors side by side, one row per component.
func vectorTable(names []string, vecs ...mat.Vector) string {
	t := table.NewWriter()
	header := table.Row{"#"}
	for _, name := range names {
		header = append(header, name)
	}
	t.AppendHeader(header)
	if len(vecs) == 0 {
		return t.Render()
	}
	for i := 0; i < vecs[0].Len(); i++ {
		row := table.Row{fmt.Sprintf("%d", i)}
		for _, v := range vecs {
			row = append(row, fmt.Sprintf("%.6g", v.AtVec(i)))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// matrixTable renders m with the given column names.
func matrixTable(columns []string, m mat.Matrix) string {
	t := table.NewWriter()
	header := table.Row{"row"}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		row := table.Row{fmt.Sprintf("%d", i)}
		for j := 0; j < cols; j++ {
			row = append(row, fmt.Sprintf("%.6g", m.At(i, j)))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
