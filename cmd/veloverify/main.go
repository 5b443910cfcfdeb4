package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"veloverify-engine/internal/compare"
	"veloverify-engine/internal/config"
	"veloverify-engine/internal/domain"
	"veloverify-engine/internal/export"
	"veloverify-engine/internal/ingest"
	"veloverify-engine/internal/process"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "process":
		runProcess(os.Args[2:])
	case "compare":
		runCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  veloverify process -in <export.csv|export.html> [-config <path>] [-out <dir>]
  veloverify compare -a <file.csv> -b <file.csv> [-keys col1,col2]`)
}

func runProcess(args []string) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	inPath := fs.String("in", "", "input export file (csv or html table)")
	cfgPath := fs.String("config", "", "config file (default: data dir bootstrap)")
	outDir := fs.String("out", "", "export directory (overrides config)")
	_ = fs.Parse(args)

	if *inPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	// Data dir: use env if provided, else local folder.
	dataDir := os.Getenv("VELOVERIFY_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath := *cfgPath
	if userCfgPath == "" {
		defaultCfgPath := filepath.Join("config", "config.yml")
		p, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
		userCfgPath = p
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if *outDir != "" {
		cfg.Export.OutDir = *outDir
	}
	runCfg, err := config.Resolve(cfg)
	if err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ds, err := readDataset(*inPath)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	res, err := process.Run(runCfg, ds)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	switch cfg.Export.Format {
	case "sqlite":
		dbPath := filepath.Join(cfg.Export.OutDir, "veloverify.db")
		if err := os.MkdirAll(cfg.Export.OutDir, 0o755); err != nil {
			log.Fatal(err)
		}
		if err := export.WriteSQLite(context.Background(), dbPath, res); err != nil {
			log.Fatalf("export failed: %v", err)
		}
	default:
		if err := export.WriteCSVDir(cfg.Export.OutDir, res); err != nil {
			log.Fatalf("export failed: %v", err)
		}
	}

	printStats(res)
}

func readDataset(path string) (domain.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xls":
		return ingest.ReadHTMLTable(path)
	default:
		return ingest.ReadCSV(path)
	}
}

func printStats(res domain.RunResult) {
	s := res.Stats
	fmt.Printf("run %s\n", res.RunID)
	fmt.Printf("  input records      %d\n", s.TotalInput)
	fmt.Printf("  status rejected    %d\n", s.StatusRejected)
	fmt.Printf("  missing identifier %d\n", s.MissingIdentifier)
	fmt.Printf("  duplicates removed %d\n", s.DuplicatesRemoved)
	fmt.Printf("  kept               %d\n", s.Kept)
	fmt.Printf("  qc findings        %d\n", s.QCFlagged)
	for _, bc := range s.PerBucket {
		fmt.Printf("  %-24s %d\n", bc.Label, bc.Count)
	}
}

func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	pathA := fs.String("a", "", "first export file")
	pathB := fs.String("b", "", "second export file")
	keysFlag := fs.String("keys", "", "comma-separated key columns (default: shared columns)")
	_ = fs.Parse(args)

	if *pathA == "" || *pathB == "" {
		fs.Usage()
		os.Exit(2)
	}

	var keys []string
	if *keysFlag != "" {
		for _, k := range strings.Split(*keysFlag, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}

	res, err := compare.Files(*pathA, *pathB, keys)
	if err != nil {
		log.Fatalf("compare failed: %v", err)
	}

	fmt.Printf("keys: %s\n", strings.Join(res.Keys, ", "))
	fmt.Printf("  %-12s %d records\n", filepath.Base(*pathA), res.TotalA)
	fmt.Printf("  %-12s %d records\n", filepath.Base(*pathB), res.TotalB)
	fmt.Printf("  in both      %d\n", res.InBoth)
	fmt.Printf("  only in A    %d\n", len(res.OnlyInA))
	fmt.Printf("  only in B    %d\n", len(res.OnlyInB))
}
