package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/domino14/stratsim/evolution"
)

func TestSiteName(t *testing.T) {
	assert.Equal(t, "A", SiteName(0))
	assert.Equal(t, "B", SiteName(1))
	assert.Equal(t, "27", SiteName(26))
}

func TestStrategyName(t *testing.T) {
	opts := DefaultChartOptions()
	assert.Equal(t, "Keyword optimization", opts.strategyName(0))
	assert.Equal(t, "Content quality", opts.strategyName(1))
	assert.Equal(t, "Strategy 3", opts.strategyName(2))
}

func TestPhaseChart(t *testing.T) {
	s := evolution.NewStrategies(5, 2, 2)
	for i := range s.Raw() {
		s.Raw()[i] = float64(i%7) / 7
	}
	opts := DefaultChartOptions()
	opts.Width, opts.Height = 300, 150

	var buf bytes.Buffer
	err := PhaseChart(&buf, s, opts)
	assert.Nil(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestPhaseChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := PhaseChart(&buf, evolution.NewStrategies(0, 2, 2), DefaultChartOptions())
	assert.NotNil(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestUtilityHistogram(t *testing.T) {
	var buf bytes.Buffer
	err := UtilityHistogram(&buf, []float64{-0.4, -0.2, -0.2, 0.1, 0.3}, 3, 20)
	assert.Nil(t, err)
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	assert.Nil(t, UtilityHistogram(&buf, nil, 3, 20))
	assert.Equal(t, "(no utilities)\n", buf.String())
}

func TestFormatMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	out := FormatMatrix("x = ", m)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "x = "))
	assert.True(t, strings.HasPrefix(lines[1], "    "))
	assert.Contains(t, lines[0], "1")
	assert.Contains(t, lines[1], "4")
}
