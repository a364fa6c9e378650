// catat is a small CLI for exercising the extraction and recording flow
// without running the API server: feed it a piece of transaction text and it
// prints what the model extracted, optionally recording it against the
// in-memory store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nafisr/catatuang/internal/config"
	"github.com/nafisr/catatuang/internal/extractor"
	"github.com/nafisr/catatuang/internal/logger"
	"github.com/nafisr/catatuang/internal/recorder"
	"github.com/nafisr/catatuang/internal/store/memory"
)

func main() {
	log := logger.New()

	var (
		record = flag.Bool("record", false, "Run the full recording flow against an in-memory store")
		user   = flag.String("user", "local", "User id to record under (with -record)")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: catat [-record] [-user id] \"beli kopi 15rb pake gopay\"")
		os.Exit(1)
	}
	text := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ext, err := extractor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extractor")
	}

	if *record {
		rec := recorder.New(ext, memory.New(), log)
		result, err := rec.Record(ctx, *user, text)
		if err != nil {
			log.Fatal().Err(err).Msg("Recording failed")
		}
		printJSON(map[string]interface{}{
			"transactionId": result.TransactionID,
			"extracted":     result.Extracted,
		})
		return
	}

	extracted, err := ext.Extract(ctx, text)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
	printJSON(extracted)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
