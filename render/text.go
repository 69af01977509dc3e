package render

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/mat"
)

// UtilityHistogram prints a horizontal histogram of values, scaled so the
// fullest bin is width characters wide.
func UtilityHistogram(w io.Writer, values []float64, bins, width int) error {
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "(no utilities)")
		return err
	}
	h := histogram.Hist(bins, values)
	return histogram.Fprint(w, h, histogram.Linear(width))
}

// FormatMatrix lays out m in aligned columns, with prefix in front of the
// first row.
func FormatMatrix(prefix string, m mat.Matrix) string {
	pad := fmt.Sprintf("%*s", len(prefix), "")
	return fmt.Sprintf("%s%v", prefix, mat.Formatted(m, mat.Prefix(pad), mat.Squeeze()))
}
