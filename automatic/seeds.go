package automatic

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/domino14/stratsim/rng"
)

// GenerateSeeds creates n random 32-byte seeds for deterministic replicates.
func GenerateSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		seeds[i] = rng.NewSeed()
	}
	return seeds
}

// SaveSeeds writes one encoded seed per line, after a comment header.
func SaveSeeds(seeds [][32]byte, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# %d replicate seeds (base64 URL-safe, 32 bytes each)\n", len(seeds))
	for _, seed := range seeds {
		fmt.Fprintln(w, rng.EncodeSeed(seed))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write seed file: %w", err)
	}
	return nil
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines
// starting with # are skipped.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seed, err := rng.DecodeSeed(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
