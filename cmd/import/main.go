// Command import loads products from a CSV or XLSX file into the catalog.
//
//	import products.xlsx            reconcile the file against the database
//	import -dry-run products.csv    run against an empty in-memory catalog
//	import -sample sample.csv       write a sample file with every column
//	import -fields                  list accepted column headers
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/catalog/internal/config"
	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/logging"
	"github.com/JonMunkholm/catalog/internal/store"
	"github.com/JonMunkholm/catalog/internal/store/memstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	sample := fs.String("sample", "", "write a sample CSV to this path and exit")
	dryRun := fs.Bool("dry-run", false, "import into an in-memory catalog instead of the database")
	maxErrors := fs.Int("max-errors", 10, "failed and skipped rows listed in the report (0 lists all)")
	fields := fs.Bool("fields", false, "list accepted column headers and exit")
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: import [flags] <file.csv|file.xlsx>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printFields(out)
			return nil
		}
		return err
	}

	switch {
	case *sample != "":
		return writeSampleFile(*sample, out)
	case *fields:
		printFields(out)
		return nil
	case fs.NArg() != 1:
		fs.Usage()
		return errors.New("expected exactly one file")
	}

	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	var (
		catalog core.Store
		cfg     *config.Config
	)
	if *dryRun {
		catalog = memstore.New(nil)
	} else {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		catalog = store.New(pool)
	}

	report, err := importFile(ctx, core.NewService(catalog, nil, cfg), fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report.Summary(*maxErrors))
	return nil
}

func importFile(ctx context.Context, svc *core.Service, path string) (*core.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	slog.Debug("importing", "file", path, "bytes", info.Size())
	return svc.ImportFile(ctx, filepath.Base(path), f, info.Size())
}

func printFields(out io.Writer) {
	names := core.DefaultColumnAliases.Names()
	fmt.Fprintf(out, "Accepted columns (alias table v%d, first listed wins):\n", core.DefaultColumnAliases.Version)
	for _, f := range core.DefaultColumnAliases.Fields {
		fmt.Fprintf(out, "  %-16s %v\n", f.Field, names[f.Field])
	}
	fmt.Fprintln(out, "sku is required; name is required for new products.")
}

var sampleHeader = []string{"货号", "名称", "条码", "规格", "型号", "零售价", "批发价", "库存", "描述", "分类"}

var sampleRows = [][]string{
	{"PRD001", "洗衣液", "1234567890123", "2L/瓶", "LX-2000", "25.50", "20.00", "100", "强力去污洗衣液，适用于各种织物", "清洁用品"},
	{"PRD002", "洗洁精", "2345678901234", "500ml/瓶", "XJ-001", "12.00", "9.50", "200", "食品级洗洁精，去油效果好", "清洁用品"},
	{"PRD003", "纸巾", "3456789012345", "6包装", "ZJ-100", "18.00", "15.00", "150", "原生木浆纸巾，柔软舒适", "日用品"},
}

func writeSampleFile(path string, out io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeSample(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote sample file: %s\n", path)
	return nil
}

// writeSample writes a BOM so Excel opens the file as UTF-8.
func writeSample(w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(sampleRows); err != nil {
		return err
	}
	return cw.Error()
}
