// catalogctl is the maintenance companion to the API server. It handles data
// imports, backups and cleanup jobs that would otherwise need one-off scripts.
// Destructive commands preview by default and only apply with -yes.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/catfoodlab/catfood-backend/internal/backup"
	"github.com/catfoodlab/catfood-backend/internal/config"
	"github.com/catfoodlab/catfood-backend/internal/ingestion"
	"github.com/catfoodlab/catfood-backend/internal/ingredient"
	"github.com/catfoodlab/catfood-backend/internal/product"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  import-csv     -file <path>              import products from a CSV file
  import-excel   -file <path>              import products from an xlsx file
  backup         [-dir <path>]             export tables to CSV files
  delete-by-name -contains <substr> [-yes] delete products by name substring
  dedupe         [-yes]                    remove duplicate products
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)

	db := mustOpenDB(cfg)
	defer db.Close()

	switch os.Args[1] {
	case "import-csv":
		runImportCSV(db, os.Args[2:])
	case "import-excel":
		runImportExcel(db, os.Args[2:])
	case "backup":
		runBackup(db, os.Args[2:])
	case "delete-by-name":
		runDeleteByName(db, os.Args[2:])
	case "dedupe":
		runDedupe(db, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func newIngestionService(db *sql.DB) (*ingestion.Service, *product.Service) {
	products := product.NewService(product.NewPostgresRepository(db))
	ingredients := ingredient.NewService(ingredient.NewPostgresRepository(db))
	return ingestion.NewService(products, ingredients), products
}

func runImportCSV(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)
	file := fs.String("file", "", "path to the CSV file")
	_ = fs.Parse(args)
	if *file == "" {
		fatalf("import-csv: -file is required")
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fatalf("read %s: %v", *file, err)
	}

	svc, _ := newIngestionService(db)
	created, err := svc.IngestCSV(string(content))
	if err != nil {
		fatalf("import failed: %v", err)
	}
	fmt.Printf("Successfully ingested %d products.\n", created)
}

func runImportExcel(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("import-excel", flag.ExitOnError)
	file := fs.String("file", "", "path to the xlsx file")
	_ = fs.Parse(args)
	if *file == "" {
		fatalf("import-excel: -file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		fatalf("open %s: %v", *file, err)
	}
	defer f.Close()

	rows, err := ingestion.ParseExcel(f)
	if err != nil {
		fatalf("parse %s: %v", *file, err)
	}

	svc, _ := newIngestionService(db)
	created, err := svc.IngestRows(rows)
	if err != nil {
		fatalf("import failed: %v", err)
	}
	fmt.Printf("Successfully ingested %d products.\n", created)
}

func runBackup(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dir := fs.String("dir", "", "output directory (default backups/<timestamp>)")
	_ = fs.Parse(args)

	summary, err := backup.Run(db, *dir)
	if err != nil {
		fatalf("backup failed: %v", err)
	}
	fmt.Printf("Backed up %d products, %d ingredients, %d associations to %s\n",
		summary.Products, summary.Ingredients, summary.Associations, summary.Dir)
}

func runDeleteByName(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("delete-by-name", flag.ExitOnError)
	contains := fs.String("contains", "", "substring to match in product name (case-insensitive)")
	yes := fs.Bool("yes", false, "actually delete; otherwise only preview")
	sample := fs.Int("sample", 20, "how many matches to print in the preview")
	_ = fs.Parse(args)
	if *contains == "" {
		fatalf("delete-by-name: -contains is required")
	}

	products := product.NewService(product.NewPostgresRepository(db))
	matches, err := products.FindByNameContains(*contains)
	if err != nil {
		fatalf("query failed: %v", err)
	}

	fmt.Printf("%d product(s) match %q\n", len(matches), *contains)
	for i, p := range matches {
		if i >= *sample {
			fmt.Printf("... and %d more\n", len(matches)-*sample)
			break
		}
		fmt.Printf("  [%d] %s by %s\n", p.ID, p.Name, p.Brand)
	}

	if !*yes {
		fmt.Println("Preview only. Re-run with -yes to delete.")
		return
	}
	deleted, err := products.DeleteByNameContains(*contains)
	if err != nil {
		fatalf("delete failed: %v", err)
	}
	fmt.Printf("Deleted %d product(s).\n", deleted)
}

func runDedupe(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)
	yes := fs.Bool("yes", false, "actually delete duplicates; otherwise only preview")
	_ = fs.Parse(args)

	products := product.NewService(product.NewPostgresRepository(db))
	all, err := products.List(0, 100000)
	if err != nil {
		fatalf("query failed: %v", err)
	}

	groups := product.FindDuplicateGroups(all)
	total := 0
	for _, g := range groups {
		fmt.Printf("keep [%d] %s by %s\n", g.Keep.ID, g.Keep.Name, g.Keep.Brand)
		for _, d := range g.Duplicates {
			fmt.Printf("  drop [%d] %s by %s\n", d.ID, d.Name, d.Brand)
			total++
		}
	}
	fmt.Printf("%d duplicate(s) in %d group(s)\n", total, len(groups))

	if !*yes {
		fmt.Println("Preview only. Re-run with -yes to delete.")
		return
	}
	deleted, err := products.RemoveDuplicates()
	if err != nil {
		fatalf("dedupe failed: %v", err)
	}
	fmt.Printf("Deleted %d duplicate(s).\n", deleted)
}

func mustOpenDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		fatalf("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		fatalf("open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		fatalf("ping database: %v", err)
	}
	return db
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
