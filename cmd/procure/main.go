package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"procure/internal"
	"procure/internal/api"
	"procure/internal/config"
	"procure/internal/ingest"
	"procure/internal/reconcile"
	"procure/internal/report"
	"procure/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "po:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "xlsx file with PO line items")
		order := fs.String("order", "", "order number")
		client := fs.String("client", "", "client name")
		project := fs.String("project", "", "project code (optional)")
		_ = fs.Parse(os.Args[2:])
		if *file == "" || *order == "" || *client == "" {
			must(fmt.Errorf("--file --order --client are required"))
		}

		blob, err := os.ReadFile(*file)
		must(err)
		items, skipped, err := ingest.ParseLineItemsXLSX(blob)
		must(err)
		if len(items) == 0 {
			must(fmt.Errorf("no line items found in %s", *file))
		}

		po := internal.PurchaseOrder{
			ID:          uuid.NewString(),
			OrderNumber: *order,
			ClientName:  *client,
			Items:       items,
		}
		if strings.TrimSpace(*project) != "" {
			p := *project
			po.ProjectCode = &p
		}
		must(db.InsertPurchaseOrder(po))
		fmt.Printf("imported PO %s id=%s lines=%d skipped=%d\n", po.OrderNumber, po.ID, len(items), skipped)
	case "pi:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "xlsx file with PI line items")
		invoice := fs.String("invoice", "", "proforma invoice reference")
		_ = fs.Parse(os.Args[2:])
		if *file == "" || *invoice == "" {
			must(fmt.Errorf("--file --invoice are required"))
		}

		blob, err := os.ReadFile(*file)
		must(err)
		items, skipped, err := ingest.ParsePIItemsXLSX(blob, *invoice)
		must(err)
		if len(items) == 0 {
			must(fmt.Errorf("no line items found in %s", *file))
		}
		must(db.InsertPIItems(items))
		fmt.Printf("imported PI %s lines=%d skipped=%d\n", *invoice, len(items), skipped)
	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "optional xlsx report path")
		_ = fs.Parse(os.Args[2:])

		orders, err := db.ListPurchaseOrders()
		must(err)
		items, err := db.ListPIItems()
		must(err)

		engine := reconcile.NewEngine(cfg)
		result := engine.FindMatches(items, orders)
		if !result.Success {
			must(fmt.Errorf("reconcile failed: %s", result.Error))
		}
		must(db.InsertRun(uuid.NewString(), result.Summary))

		s := result.Summary
		fmt.Printf("reconcile done items=%d alreadyMatched=%d searched=%d withCandidates=%d noMatch=%d highConfidence=%d rate=%.1f%%\n",
			s.TotalItems, s.AlreadyMatchedItems, s.SearchedItems, s.MatchedItems, s.NoMatchItems, s.HighConfidenceMatches, s.MatchRate)

		if strings.TrimSpace(*out) != "" {
			rows := report.BuildRows(result)
			must(report.ExportXLSX(rows, result.Summary, report.PITotal(items), *out))
			fmt.Printf("report written to %s\n", *out)
		}
	case "apply":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		selectionsPath := fs.String("selections", "", "json file: {piItemId: MatchCandidate}")
		_ = fs.Parse(os.Args[2:])
		if *selectionsPath == "" {
			must(fmt.Errorf("--selections is required"))
		}

		blob, err := os.ReadFile(*selectionsPath)
		must(err)
		selections := map[string]internal.MatchCandidate{}
		must(json.Unmarshal(blob, &selections))

		items, err := db.ListPIItems()
		must(err)
		updated := reconcile.ApplyMatches(items, selections)
		n, err := db.UpdatePIItemLinks(updated)
		must(err)
		fmt.Printf("applied %d selections, %d items updated\n", len(selections), n)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		outPath := *out
		if strings.TrimSpace(outPath) == "" {
			outPath = filepath.Join(cfg.OutputDir, "reconciliation.xlsx")
		}

		orders, err := db.ListPurchaseOrders()
		must(err)
		items, err := db.ListPIItems()
		must(err)
		engine := reconcile.NewEngine(cfg)
		result := engine.FindMatches(items, orders)
		rows := report.BuildRows(result)
		must(report.ExportXLSX(rows, result.Summary, report.PITotal(items), outPath))
		fmt.Printf("exported %d rows to %s\n", len(rows), outPath)
	case "suppliers":
		suppliers, err := db.ListSuppliers()
		must(err)
		for _, s := range suppliers {
			fmt.Printf("%s\t%s\n", s.ID, s.Name)
		}
		fmt.Printf("%d suppliers\n", len(suppliers))
	case "serve":
		server := api.NewServer(db, cfg)
		must(server.ListenAndServe())
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`usage: procure <command> [flags]

commands:
  po:import    --file po.xlsx --order PO-123 --client "Acme" [--project P-1]
  pi:import    --file pi.xlsx --invoice INV-9
  reconcile    [--out report.xlsx]
  apply        --selections selections.json
  export:xlsx  [--out report.xlsx]
  suppliers
  serve`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
