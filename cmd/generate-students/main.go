package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/service/importer"
	"github.com/mamadbah2/studentdesk/pkg/logger"
)

const nullScoreRate = 0.02

var (
	birthYears = []int{2000, 2001, 2002, 2003, 2004, 2005, 2006}
	firstNames = []string{"Nam", "An", "Minh", "Hoa", "Tuan", "Lan", "Hung", "Mai", "Long", "Nga"}
	lastNames  = []string{"Nguyen", "Tran", "Le", "Pham", "Do", "Vu", "Bui", "Ho", "Dang", "Phan", "Trinh"}
	homeTowns  = []string{
		"Ha Noi", "HCM", "Da Nang", "Hai Phong", "Can Tho", "Hung Yen", "Nam Dinh", "Thai Nguyen",
		"Bac Giang", "Bac Ninh",
	}
)

func main() {
	count := flag.Int("n", 100, "number of students to generate")
	output := flag.String("o", "random_students.csv", "output file, - for stdout")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	log := logger.Must(logger.New("info"))
	defer func() { _ = log.Sync() }()

	if err := run(*output, *count, *seed); err != nil {
		log.Error("failed to generate students", zap.String("output", *output), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("students generated", zap.Int("count", *count), zap.String("output", *output))
}

// run writes count students to output and closes the file before returning.
func run(output string, count int, seed uint64) (err error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	if output == "-" {
		return generate(os.Stdout, count, rng)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	return generate(f, count, rng)
}

// generate writes n random students as CSV with the import header.
func generate(w io.Writer, n int, rng *rand.Rand) error {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		first := pick(rng, firstNames)
		last := pick(rng, lastNames)
		rows = append(rows, []string{
			first,
			last,
			fmt.Sprintf("%s.%s%d@gmail.com", strings.ToLower(first), strings.ToLower(last), i),
			randomBirthDate(rng).Format(time.DateOnly),
			pick(rng, homeTowns),
			randomScore(rng),
			randomScore(rng),
			randomScore(rng),
		})
	}

	// emails carry the sequence number, so shuffle to avoid ordered output
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

	cw := csv.NewWriter(w)
	if err := cw.Write(importer.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func randomBirthDate(rng *rand.Rand) time.Time {
	year := birthYears[rng.IntN(len(birthYears))]
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24
	return start.AddDate(0, 0, rng.IntN(int(days)))
}

// randomScore returns a score in [3.0, 10.0] with one decimal, or empty for a null.
func randomScore(rng *rand.Rand) string {
	if rng.Float64() < nullScoreRate {
		return ""
	}
	v := 3.0 + rng.Float64()*7.0
	return strconv.FormatFloat(float64(int(v*10+0.5))/10, 'f', 1, 64)
}
