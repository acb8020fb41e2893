package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"sort"
	"time"

	octopusenergy "github.com/paul-ri/HomeAssistant-OctopusEnergy"
)

// envOrString returns the environment variable value if set, otherwise returns the default value.
func envOrString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// Config contains configuration for the exporter.
type Config struct {
	APIKey         string
	AccountID      string
	OutputCSV      string
	CacheDirectory string
	StartTime      *time.Time
	EndTime        time.Time
}

func parseFlags() *Config {
	apiKey := flag.String("apikey", envOrString("OCTOPUS_API_KEY", ""), "Octopus API key")
	accountID := flag.String("accountID", envOrString("OCTOPUS_ACCOUNT_ID", ""), "Octopus Account ID")
	outCSV := flag.String("out", envOrString("OUTPUT_CSV", "usage.csv"), "Output CSV file")
	cacheDir := flag.String("cache", envOrString("CACHE_DIR", "disable"), "Directory for HTTP cache ('disable' to disable, empty for temporary directory)")
	startTime := flag.String("startTime", "", "Start time for data fetching (optional, RFC3339 format)")
	flag.Parse()

	if *apiKey == "" || *accountID == "" {
		log.Fatalf("Required flags missing. Usage: %s -apikey=... -accountID=...", os.Args[0])
	}

	var parsedStartTime *time.Time
	if *startTime != "" {
		parsedTime, err := time.Parse(time.RFC3339, *startTime)
		if err != nil {
			log.Fatalf("Invalid startTime format: %v", err)
		}
		parsedStartTime = &parsedTime
	}

	return &Config{
		APIKey:         *apiKey,
		AccountID:      *accountID,
		OutputCSV:      *outCSV,
		CacheDirectory: *cacheDir,
		StartTime:      parsedStartTime,
		EndTime:        time.Now(),
	}
}

// App manages exporter dependencies and logic.
type App struct {
	Config *Config
	Client *octopusenergy.Client
}

func NewApp(config *Config) *App {
	rt := http.DefaultTransport

	if config.CacheDirectory != "disable" {
		cacheDir := config.CacheDirectory
		if cacheDir == "" {
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			log.Fatalf("failed to create cache dir: %v", err)
		}

		rt = &octopusenergy.CachingRoundTripper{
			Transport: http.DefaultTransport,
			Dir:       path.Clean(cacheDir),
		}

		log.Printf("HTTP caching enabled in directory: %s", cacheDir)
	} else {
		log.Println("HTTP caching disabled")
	}

	client, err := octopusenergy.NewClient(rt, config.APIKey)
	if err != nil {
		log.Fatalf("Failed to create Octopus client: %v", err)
	}

	return &App{
		Config: config,
		Client: client,
	}
}

func (app *App) Run() error {
	ctx := context.Background()

	start := truncateToMidnight(app.Config.EndTime.UTC().Add(-48 * time.Hour))
	if app.Config.StartTime != nil {
		start = app.Config.StartTime.UTC()
	}
	end := app.Config.EndTime.UTC()
	log.Printf("Using date range %s - %s", start.Format(time.RFC3339), end.Format(time.RFC3339))

	account, err := app.Client.GetAccount(ctx, app.Config.AccountID)
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %s was not retrieved", app.Config.AccountID)
	}

	meterPoint, meter, err := findImportMeter(account)
	if err != nil {
		return err
	}
	tariffCode := meterPoint.Agreements[len(meterPoint.Agreements)-1].TariffCode
	log.Printf("Using meter %s on tariff %s", meter.SerialNumber, tariffCode)

	rates, err := app.Client.GetElectricityRates(ctx, tariffCode, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch rates: %w", err)
	}
	log.Printf("Fetched %d rate intervals", len(rates))

	standingCharge, err := app.Client.GetElectricityStandingCharge(ctx, tariffCode, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch standing charge: %w", err)
	}

	consumption, err := app.Client.GetElectricityConsumption(ctx, meterPoint.Mpan, meter.SerialNumber, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch consumption: %w", err)
	}
	log.Printf("Fetched %d consumption records", len(consumption))

	var rows []usageRow
	for _, record := range consumption {
		row := usageRow{
			Timestamp:      record.IntervalStart,
			ConsumptionKWh: record.Consumption,
		}
		if rate := findRateForTime(record.IntervalStart, rates); rate != nil {
			row.UnitRateIncVAT = &rate.ValueIncVAT
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	if err := writeCSV(app.Config.OutputCSV, rows, standingCharge); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	log.Printf("Wrote CSV to %s", app.Config.OutputCSV)

	return nil
}

// findImportMeter picks the first electricity meter point with an import
// meter and at least one agreement.
func findImportMeter(account *octopusenergy.AccountSnapshot) (*octopusenergy.ElectricityMeterPoint, *octopusenergy.ElectricityMeter, error) {
	for i := range account.ElectricityMeterPoints {
		point := &account.ElectricityMeterPoints[i]
		if len(point.Agreements) == 0 {
			continue
		}
		for j := range point.Meters {
			if !point.Meters[j].IsExport {
				return point, &point.Meters[j], nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no import electricity meter found on the account")
}

// findRateForTime returns the rate interval covering t, or nil.
func findRateForTime(t time.Time, intervals []octopusenergy.RateInterval) *octopusenergy.RateInterval {
	for i := range intervals {
		if !t.Before(intervals[i].ValidFrom) && t.Before(intervals[i].ValidTo) {
			return &intervals[i]
		}
	}
	return nil
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func main() {
	config := parseFlags()
	app := NewApp(config)

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
