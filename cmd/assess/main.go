// Command assess answers one risk query from the command line using the same
// historical tables and prediction mode as the service, then prints the verdict
// and the waste projection.
//
// Usage:
//
//	go run ./cmd/assess -date 2023-08-17 -temp 33.5 -humidity 70 -horizon 5
//
// With PREDICTION_MODE=regression it can also forecast future values:
//
//	go run ./cmd/assess -forecast-year 2030 -avg-daily-waste 750 -forecast-date 2030-07-01
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/tpa-methane-risk/internal/app"
	"github.com/couchcryptid/tpa-methane-risk/internal/config"
	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/estimator"
)

func main() {
	date := flag.String("date", "", "date to assess as YYYY-MM-DD (default today)")
	temp := flag.Float64("temp", 0, "observed temperature in °C (default predicted)")
	humidity := flag.Float64("humidity", 0, "observed humidity in % (default predicted)")
	forecastYear := flag.Int("forecast-year", 0, "forecast total waste for this year (regression mode)")
	avgDailyWaste := flag.Float64("avg-daily-waste", 0, "average daily waste in tons for -forecast-year (default AVG_DAILY_WASTE)")
	forecastDate := flag.String("forecast-date", "", "forecast daily temperature for this YYYY-MM-DD date (regression mode)")
	dataDir := flag.String("data-dir", "", "directory holding the CSV tables (overrides DATA_DIR)")
	horizon := flag.Int("horizon", -1, "projection horizon in years (default PROJECTION_HORIZON)")
	asJSON := flag.Bool("json", false, "print the assessment as JSON")
	verbose := flag.Bool("v", false, "log fallbacks to stderr")
	flag.Parse()

	opts := options{
		date:         *date,
		dataDir:      *dataDir,
		horizon:      *horizon,
		asJSON:       *asJSON,
		verbose:      *verbose,
		forecastYear: *forecastYear,
		forecastDate: *forecastDate,
	}
	// Only flags given on the command line count as observations, so any value,
	// including a negative one, reaches validation.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "temp":
			opts.temp = temp
		case "humidity":
			opts.humidity = humidity
		case "avg-daily-waste":
			opts.avgDailyWaste = avgDailyWaste
		}
	})

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, "assess:", err)
		os.Exit(1)
	}
}

type options struct {
	date     string
	temp     *float64
	humidity *float64
	dataDir  string
	horizon  int
	asJSON   bool
	verbose  bool

	forecastYear  int
	forecastDate  string
	avgDailyWaste *float64
}

func run(out io.Writer, opts options) error {
	_ = godotenv.Load()
	if opts.dataDir != "" {
		if err := os.Setenv("DATA_DIR", opts.dataDir); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.horizon >= 0 {
		cfg.ProjectionHorizon = opts.horizon
	}

	logOut := io.Discard
	if opts.verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	svc, err := app.Load(cfg, nil, logger)
	if err != nil {
		return err
	}

	if opts.forecastYear != 0 || opts.forecastDate != "" {
		return forecast(out, svc, opts)
	}

	req := domain.QueryRequest{Date: opts.date, TemperatureC: opts.temp, HumidityPct: opts.humidity}
	q, err := req.ToQuery()
	if err != nil {
		return err
	}
	a, err := svc.Assessor.Assess(context.Background(), q)
	if err != nil {
		return err
	}
	points, err := domain.Project(svc.Waste, cfg.ProjectionHorizon)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Assessment domain.Assessment     `json:"assessment"`
			Projection []domain.SeriesPoint `json:"projection"`
		}{a, points})
	}
	printReport(out, a, points)
	return nil
}

// forecast prints regression predictions, which may target future years and
// dates.
func forecast(out io.Writer, svc *app.Service, opts options) error {
	var result struct {
		Waste       *estimator.WasteForecast       `json:"waste,omitempty"`
		Temperature *estimator.TemperatureForecast `json:"temperature,omitempty"`
	}

	if opts.forecastYear != 0 {
		if svc.WasteModel == nil {
			return errors.New("waste forecasts need PREDICTION_MODE=regression")
		}
		avg := svc.WasteModel.AvgDailyWaste()
		if opts.avgDailyWaste != nil {
			avg = *opts.avgDailyWaste
		}
		f, err := svc.WasteModel.Forecast(opts.forecastYear, avg)
		if err != nil {
			return err
		}
		result.Waste = &f
	}

	if opts.forecastDate != "" {
		if svc.TemperatureModel == nil {
			return errors.New("temperature forecasts need PREDICTION_MODE=regression")
		}
		date, err := domain.ParseQueryDate(opts.forecastDate)
		if err != nil {
			return err
		}
		f, err := svc.TemperatureModel.Forecast(date)
		if err != nil {
			return err
		}
		result.Temperature = &f
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if w := result.Waste; w != nil {
		fmt.Fprintf(out, "Predicted total waste for %d: %.2f tons (average %.2f tons/day)\n",
			w.Year, w.TotalTonnage, w.AvgDailyWaste)
	}
	if tf := result.Temperature; tf != nil {
		fmt.Fprintf(out, "Predicted temperature on %s: %.2f°C\n", tf.Date, tf.TemperatureC)
	}
	return nil
}

func printReport(out io.Writer, a domain.Assessment, points []domain.SeriesPoint) {
	fmt.Fprintf(out, "Date:      %s\n", a.Date.Format(domain.QueryDateLayout))
	fmt.Fprintf(out, "Waste:     %.0f tons", a.Waste.Tonnage)
	if a.Waste.SourceYear != 0 && a.Waste.SourceYear != a.Waste.Year {
		fmt.Fprintf(out, " (from %d)", a.Waste.SourceYear)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Methane:   %s\n", a.Verdict.MethaneLabel)
	fmt.Fprintf(out, "Risk:      %s\n", a.Verdict.RiskLabel)
	fmt.Fprintf(out, "\n%s\n", a.Verdict.Message)

	if len(a.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range a.Warnings {
			fmt.Fprintf(out, "  - %s\n", w.Message)
		}
	}

	fmt.Fprintln(out, "\nWaste series:")
	for _, p := range points {
		marker := ""
		if p.Projected {
			marker = " (projected)"
		}
		region := p.Region
		if region == "" {
			region = "-"
		}
		fmt.Fprintf(out, "  %d  %-20s %12.0f%s\n", p.Year, region, p.Tonnage, marker)
	}
}
