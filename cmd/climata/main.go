package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"climata/internal/analysis"
	"climata/internal/api"
	"climata/internal/ingest"
	"climata/internal/pipeline"
)

type cliFlags struct {
	Postcode string `help:"UK postcode to analyse." env:"CLIMATA_POSTCODE"`
	Start    string `help:"First day of the range (YYYY-MM-DD)." env:"CLIMATA_START"`
	End      string `help:"Last day of the range (YYYY-MM-DD); defaults to yesterday." env:"CLIMATA_END"`
	Current  bool   `help:"Include current conditions in the bundle." env:"CLIMATA_CURRENT"`
	Serve    bool   `help:"Run the HTTP API instead of a one-shot analysis." env:"CLIMATA_SERVE"`
	Port     string `help:"HTTP server port." default:"8080" env:"CLIMATA_PORT"`
}

func main() {
	var flags cliFlags
	kctx := kong.Parse(&flags,
		kong.Name("climata"),
		kong.Description("Derive climate statistics for a UK postcode from daily weather history."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	runner := pipeline.NewRunner(
		ingest.NewResolver(),
		ingest.NewHistoricalClient(),
		ingest.NewCurrentClient(),
		analysis.DefaultConfig(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if flags.Serve {
		server := api.NewServer(runner, flags.Port)
		if err := server.Run(ctx); err != nil {
			log.Fatalf("server: %v", err)
		}
		return
	}

	if flags.Postcode == "" {
		kctx.Fatalf("--postcode is required unless --serve is set")
	}
	start, err := time.Parse("2006-01-02", flags.Start)
	if err != nil {
		kctx.Fatalf("--start: want YYYY-MM-DD, got %q", flags.Start)
	}
	end := yesterday()
	if flags.End != "" {
		end, err = time.Parse("2006-01-02", flags.End)
		if err != nil {
			kctx.Fatalf("--end: want YYYY-MM-DD, got %q", flags.End)
		}
	}

	bundle, err := runner.Analyze(ctx, pipeline.Request{
		Postcode:       flags.Postcode,
		Start:          start,
		End:            end,
		IncludeCurrent: flags.Current,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

// yesterday is the newest day the archive can be expected to have. Calendar
// days follow the UK clock.
func yesterday() time.Time {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	y := time.Now().In(loc).AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, time.UTC)
}
