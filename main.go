package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gsheets_io/internal/app"
	"gsheets_io/internal/processing"
	"gsheets_io/internal/sheets"

	"github.com/rs/zerolog/log"
)

// optionFlags collects the named options given on the command line. Only
// flags the user actually set are passed on, so binding defaults still apply.
type optionFlags map[string]*string

func (o optionFlags) named(fs *flag.FlagSet) map[string]interface{} {
	named := make(map[string]interface{})
	fs.Visit(func(f *flag.Flag) {
		if value, ok := o[f.Name]; ok {
			named[f.Name] = *value
		}
	})
	return named
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] read|write <spreadsheet url or id>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "read prints the sheet as CSV; write exports CSV from stdin.")
	flag.PrintDefaults()
}

func main() {
	app.SetupEnvironment()

	options := optionFlags{}
	for _, name := range []string{
		processing.OptionSheet,
		processing.OptionRange,
		processing.OptionHeader,
		processing.OptionAllVarchar,
		processing.OptionOverwriteSheet,
		processing.OptionOverwriteRange,
		processing.OptionCreateIfNotExists,
	} {
		options[name] = flag.String(name, "", "the "+name+" option")
	}
	batchSize := flag.Int("batch", 1000, "Rows per append request when writing")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	mode, target := flag.Arg(0), flag.Arg(1)
	named := options.named(flag.CommandLine)

	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client, httpsClient, err := app.NewSheetsClient(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	ctx := context.Background()

	switch mode {
	case "read":
		err = runRead(ctx, client, target, named, os.Stdout)
	case "write":
		err = runWrite(ctx, client, target, named, os.Stdin, *batchSize)
	default:
		usage()
		os.Exit(2)
	}

	client.CallTracker().LogSessionSummary()
	log.Info().
		Int64("https_calls", httpsClient.GetAPICallCount()).
		Str("mode", mode).
		Msg("Completed")

	if err != nil {
		log.Fatal().Err(err).Str("mode", mode).Msg("Failed")
	}
}

func runRead(ctx context.Context, client *sheets.Client, target string, named map[string]interface{}, out io.Writer) error {
	opts, err := processing.BindReadOptions(named)
	if err != nil {
		return err
	}

	table, err := processing.ReadSheet(ctx, client, target, opts)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, value := range row {
			record[i] = sheets.NewCell(value).String()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()

	log.Info().
		Str("range", table.Range.String()).
		Int("columns", len(table.Columns)).
		Int("rows", len(table.Rows)).
		Msg("Read sheet")

	return w.Error()
}

func runWrite(ctx context.Context, client *sheets.Client, target string, named map[string]interface{}, in io.Reader, batchSize int) error {
	if batchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	opts, err := processing.BindWriteOptions(named)
	if err != nil {
		return err
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	names, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("no CSV header on stdin")
	}
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	writer, err := processing.NewWriter(ctx, client, target, names, opts)
	if err != nil {
		return err
	}

	batch := make([][]interface{}, 0, batchSize)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}

		row := make([]interface{}, len(record))
		for i, value := range record {
			row[i] = value
		}
		batch = append(batch, row)

		if len(batch) == batchSize {
			if err := writer.WriteBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := writer.WriteBatch(ctx, batch); err != nil {
		return err
	}
	writer.LogSummary()
	return nil
}
