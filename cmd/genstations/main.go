// Command genstations writes synthetic station files for local runs and
// fixtures. It reproduces the archive's awkward corners on purpose: both
// encodings, several header-spelling generations, comma decimals, and
// missing-value sentinels.
//
// Usage:
//
//	go run ./cmd/genstations -out ./data -stations 5 -years 30 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// headerVariants cycles through the archive's header generations.
var headerVariants = [][]string{
	{"Fecha", "Temperatura Media (°C)", "Temperatura Maxima (°C)", "Temperatura Minima (°C)", "Precipitacion (mm)"},
	{"fecha", "temp_media", "temp_max", "temp_min", "precipitacion_mm"},
	{"FECHA", "TMED", "TMAX", "TMIN", "PP"},
}

var sentinels = []string{"null", "-9999", "9999,9"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for station files")
	stations := flag.Int("stations", 5, "number of stations to generate")
	years := flag.Int("years", 30, "years of daily data per station")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *stations; i++ {
		code := fmt.Sprintf("SA%04d", 100+i)
		content := buildStation(rng, code, i, *years)

		// Every third file goes out Windows-1252 to exercise the decoder
		// fallback, matching the legacy archive exports.
		data := []byte(content)
		if i%3 == 2 {
			encoded, err := charmap.Windows1252.NewEncoder().Bytes(data)
			if err != nil {
				return fmt.Errorf("encode %s: %w", code, err)
			}
			data = encoded
		}

		path := filepath.Join(*out, code+"_daily.csv")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d years, variant %d", path, *years, i%len(headerVariants))
	}
	return nil
}

func buildStation(rng *rand.Rand, code string, idx, years int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CODIGO: %s\n", code)
	fmt.Fprintf(&b, "NOMBRE: Estación %s\n", code)
	fmt.Fprintf(&b, "LATITUD: %s\n", decimalComma(-55+rng.Float64()*20))
	fmt.Fprintf(&b, "LONGITUD: %s\n", decimalComma(-75+rng.Float64()*15))
	fmt.Fprintf(&b, "ALTITUD: %d\n", rng.Intn(2000))
	b.WriteString("\n")

	variant := headerVariants[idx%len(headerVariants)]
	b.WriteString(strings.Join(variant, ";"))
	b.WriteString("\n")

	startYear := 1950 + rng.Intn(20)
	date := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := date.AddDate(years, 0, 0)

	for date.Before(end) {
		// Seasonal cycle plus noise; southern hemisphere, so January is warm.
		doy := float64(date.YearDay())
		seasonal := 12 + 8*math.Cos(2*math.Pi*doy/365.25)
		mean := seasonal + rng.NormFloat64()*3
		spread := 4 + rng.Float64()*4

		cells := []string{
			date.Format("2006-01-02"),
			numberOrSentinel(rng, mean),
			numberOrSentinel(rng, mean+spread),
			numberOrSentinel(rng, mean-spread),
			precipCell(rng),
		}
		b.WriteString(strings.Join(cells, ";"))
		b.WriteString("\n")
		date = date.AddDate(0, 0, 1)
	}
	return b.String()
}

func numberOrSentinel(rng *rand.Rand, v float64) string {
	if rng.Float64() < 0.03 {
		return sentinels[rng.Intn(len(sentinels))]
	}
	if rng.Float64() < 0.02 {
		return ""
	}
	return decimalComma(v)
}

func precipCell(rng *rand.Rand) string {
	if rng.Float64() < 0.03 {
		return sentinels[rng.Intn(len(sentinels))]
	}
	if rng.Float64() < 0.7 {
		return "0,0"
	}
	return decimalComma(rng.Float64() * 40)
}

// decimalComma formats a float with the archive's comma decimal separator.
func decimalComma(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f", v), ".", ",")
}
