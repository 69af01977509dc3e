package automatic

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domino14/stratsim/evolution"
	"github.com/domino14/stratsim/rng"
)

func testSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		seeds[i][0] = byte(i)
		seeds[i][31] = 0xaa
	}
	return seeds
}

func TestSeedRoundTrip(t *testing.T) {
	seeds := GenerateSeeds(5)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	assert.Nil(t, SaveSeeds(seeds, path))

	loaded, err := LoadSeeds(path)
	assert.Nil(t, err)
	assert.Equal(t, seeds, loaded)
}

func TestLoadSeedsSkipsComments(t *testing.T) {
	seed := testSeeds(1)[0]
	contents := "# header\n\n" + rng.EncodeSeed(seed) + "\n   \n# trailing\n"
	path := filepath.Join(t.TempDir(), "seeds.txt")
	assert.Nil(t, os.WriteFile(path, []byte(contents), 0o644))

	loaded, err := LoadSeeds(path)
	assert.Nil(t, err)
	assert.Equal(t, [][32]byte{seed}, loaded)
}

func TestLoadSeedsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	assert.Nil(t, os.WriteFile(path, []byte("# ok\nAAAA\n"), 0o644))
	_, err := LoadSeeds(path)
	assert.ErrorContains(t, err, "line 2")
}

func TestRunReplicates(t *testing.T) {
	p := evolution.DefaultParams()
	var buf bytes.Buffer
	before := ReplicatesCompleted.Value()
	err := RunReplicates(context.Background(), p, testSeeds(8), 3, &buf)
	assert.Nil(t, err)
	assert.Equal(t, before+8, ReplicatesCompleted.Value())

	records, err := csv.NewReader(&buf).ReadAll()
	assert.Nil(t, err)
	assert.Equal(t, Header(2), records[0])
	// replicates x phases x sites
	assert.Len(t, records[1:], 8*5*2)
}

func TestRunReplicatesDeterministic(t *testing.T) {
	p := evolution.DefaultParams()
	run := func(threads int) []string {
		var buf bytes.Buffer
		assert.Nil(t, RunReplicates(context.Background(), p, testSeeds(6), threads, &buf))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		// Completion order can differ between runs; compare as a set.
		return lines
	}
	assert.ElementsMatch(t, run(1), run(4))
}

func TestRunReplicatesNoSeeds(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, RunReplicates(context.Background(), evolution.DefaultParams(), nil, 2, &buf))
	assert.Equal(t, strings.Join(Header(2), ",")+"\n", buf.String())
}

func TestRunReplicatesBadParams(t *testing.T) {
	var buf bytes.Buffer
	p := evolution.DefaultParams()
	p.Sites = 1
	assert.Equal(t, evolution.ErrSites, RunReplicates(context.Background(), p, testSeeds(1), 1, &buf))
	assert.Equal(t, ErrThreads, RunReplicates(context.Background(), evolution.DefaultParams(), testSeeds(1), 0, &buf))
}

func TestRunReplicatesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := RunReplicates(ctx, evolution.DefaultParams(), testSeeds(4), 2, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeReplicates(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, RunReplicates(context.Background(), evolution.DefaultParams(), testSeeds(10), 2, &buf))

	summary, err := AnalyzeReplicates(&buf)
	assert.Nil(t, err)
	assert.Equal(t, 10, summary.Replicates)
	assert.Equal(t, 4, summary.FinalPhase)
	assert.Len(t, summary.Sites, 2)
	for i, s := range summary.Sites {
		assert.Equal(t, i, s.Site)
		assert.Equal(t, 10, s.Utility.Iterations())
		assert.Equal(t, 10, s.MeanUtility.Iterations())
	}
	out := summary.String()
	assert.Contains(t, out, "Replicates: 10")
	assert.Contains(t, out, "Final phase: 5")
}

func TestAnalyzeKnownValues(t *testing.T) {
	csvData := strings.Join([]string{
		"replicate,phase,site,utility,mean_utility,s0,s1",
		"0,0,0,9,9,0.1,0.2",
		"0,1,0,1.0,0.5,0.1,0.2",
		"0,1,1,2.0,1.5,0.1,0.2",
		"1,1,0,3.0,2.5,0.1,0.2",
		"1,1,1,4.0,3.5,0.1,0.2",
	}, "\n")
	summary, err := AnalyzeReplicates(strings.NewReader(csvData))
	assert.Nil(t, err)
	assert.Equal(t, 2, summary.Replicates)
	assert.Equal(t, 1, summary.FinalPhase)
	assert.InDelta(t, 2.0, summary.Sites[0].Utility.Mean(), 1e-9)
	assert.InDelta(t, 3.0, summary.Sites[1].Utility.Mean(), 1e-9)
	assert.InDelta(t, 1.5, summary.Sites[0].MeanUtility.Mean(), 1e-9)
}

func TestAnalyzeBadInput(t *testing.T) {
	_, err := AnalyzeReplicates(strings.NewReader(""))
	assert.NotNil(t, err)
	_, err = AnalyzeReplicates(strings.NewReader("a,b,c\n"))
	assert.NotNil(t, err)
	_, err = AnalyzeReplicates(strings.NewReader("replicate,phase,site,utility,mean_utility\nx,0,0,1,1\n"))
	assert.NotNil(t, err)
	_, err = AnalyzeReplicates(strings.NewReader("replicate,phase,site,utility,mean_utility\n"))
	assert.NotNil(t, err)
}

func TestAnalyzeLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replicates.csv")
	f, err := os.Create(path)
	assert.Nil(t, err)
	assert.Nil(t, RunReplicates(context.Background(), evolution.DefaultParams(), testSeeds(3), 2, f))
	assert.Nil(t, f.Close())

	out, err := AnalyzeLogFile(path)
	assert.Nil(t, err)
	assert.Contains(t, out, "Replicates: 3")

	_, err = AnalyzeLogFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotNil(t, err)
}
