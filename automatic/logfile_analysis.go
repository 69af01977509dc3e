package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/stratsim/stats"
)

// SiteSummary aggregates one site's final-phase results over all replicates.
type SiteSummary struct {
	Site int
	// Utility is the utility of the last iteration of the final phase.
	Utility stats.Statistic
	// MeanUtility is the utility averaged over the final phase's iterations.
	MeanUtility stats.Statistic
}

type Summary struct {
	Replicates int
	FinalPhase int
	Sites      []SiteSummary
}

// AnalyzeReplicates reads CSV produced by RunReplicates.
func AnalyzeReplicates(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("no replicate data")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 5 || header[0] != "replicate" {
		return nil, fmt.Errorf("unexpected header: %v", header)
	}

	type key struct{ phase, site int }
	utilities := map[key]*stats.Statistic{}
	means := map[key]*stats.Statistic{}
	replicates := map[int]bool{}
	finalPhase := -1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		ints := make([]int, 3)
		for i := range ints {
			ints[i], err = strconv.Atoi(record[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", header[i], err)
			}
		}
		u, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("column utility: %w", err)
		}
		mu, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("column mean_utility: %w", err)
		}
		replicates[ints[0]] = true
		finalPhase = max(finalPhase, ints[1])
		k := key{ints[1], ints[2]}
		if utilities[k] == nil {
			utilities[k] = &stats.Statistic{}
			means[k] = &stats.Statistic{}
		}
		utilities[k].Push(u)
		means[k].Push(mu)
	}
	if len(replicates) == 0 {
		return nil, errors.New("no replicate data")
	}

	final := lo.Filter(lo.Keys(utilities), func(k key, _ int) bool { return k.phase == finalPhase })
	slices.SortFunc(final, func(a, b key) int { return a.site - b.site })

	summary := &Summary{Replicates: len(replicates), FinalPhase: finalPhase}
	for _, k := range final {
		summary.Sites = append(summary.Sites, SiteSummary{
			Site:        k.site,
			Utility:     *utilities[k],
			MeanUtility: *means[k],
		})
	}
	return summary, nil
}

func (s *Summary) String() string {
	var ss strings.Builder
	z := stats.ZVal(95)
	fmt.Fprintf(&ss, "Replicates: %d\nFinal phase: %d\n\n", s.Replicates, s.FinalPhase+1)
	fmt.Fprintf(&ss, "%-6s%-12s%-12s%-26s%-12s\n", "Site", "Utility", "Stdev", "95% CI", "Phase mean")
	for _, site := range s.Sites {
		low, high := site.Utility.ConfidenceInterval(z)
		fmt.Fprintf(&ss, "%-6d%-12.4f%-12.4f%-26s%-12.4f\n", site.Site,
			site.Utility.Mean(), site.Utility.Stdev(),
			fmt.Sprintf("[%.4f, %.4f]", low, high),
			site.MeanUtility.Mean())
	}
	return ss.String()
}

// AnalyzeLogFile analyzes the given replicate CSV file and returns a
// printable summary.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	summary, err := AnalyzeReplicates(file)
	if err != nil {
		return "", err
	}
	return summary.String(), nil
}
