//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

func runSearch(cat *Catalog, req *SearchRequest, cfg Config, jsonOut bool) int {
	opt, err := NewOptimizer(cat, req, cfg)
	if err != nil {
		return reportError(err, jsonOut)
	}
	opt.Prune()
	res, err := opt.Optimize(context.Background())
	if err != nil {
		return reportError(err, jsonOut)
	}
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(resultToJSON(cat, res))
	} else {
		fmt.Print(FormatResult(cat, res))
	}
	return 0
}

// reportError prints the failure and picks the exit code: 2 for requests
// no build can satisfy, 1 for everything else.
func reportError(err error, jsonOut bool) int {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.Encode(map[string]string{"error": err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}

// runLookup prints the augment and upgrade configurations one weapon can
// take, after pruning, without running a search.
func runLookup(cat *Catalog, name string) int {
	w := cat.WeaponByName(name)
	if w == nil {
		fmt.Fprintf(os.Stderr, "error: weapon %q not found\n", name)
		return 1
	}
	combos := PruneWeaponCombos(expandWeaponCombos([]*Weapon{w}, 0))
	fmt.Printf("%s (%s, rarity %d)%s\n", w.Name, w.Class, w.Rarity, socketSuffix(w.Sockets))
	fmt.Printf("%-9s %-9s %-10s %s\n", "true raw", "affinity", "sockets", "configuration")
	for i := range combos {
		c := &combos[i]
		conf := augmentLabel(c.Aug)
		if c.Upg.Label != "" {
			if conf != "" {
				conf += " / "
			}
			conf += c.Upg.Label
		}
		if conf == "" {
			conf = "stock"
		}
		fmt.Printf("%-9.1f %-9s %-10s %s\n", c.TrueRaw, fmt.Sprintf("%d%%", c.Affinity),
			strings.TrimSpace(socketSuffix(c.Sockets)), conf)
	}
	return 0
}

const usage = `Usage: loadout-optimizer [flags] <data.min.json> <request.json>

Positional arguments:
  data.min.json   Path to the gear catalog
  request.json    Path to the search request

Flags:
`

func main() {
	jsonOut := flag.Bool("json", false, "Output results as JSON")
	verbose := flag.Bool("verbose", false, "Print detailed search progress to stderr")
	workers := flag.Int("workers", 0, "Parallel search workers (0 = request, config, or one per CPU)")
	topk := flag.Int("topk", 0, "How many top builds to keep (0 = request or config)")
	timeout := flag.Duration("timeout", 0, "Bound on search time, e.g. 30s (0 = request or config)")
	lookup := flag.String("lookup", "", "Print augment/upgrade configurations for one weapon and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	Verbose = *verbose

	cat, err := LoadCatalog(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *lookup != "" {
		os.Exit(runLookup(cat, *lookup))
	}
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	req, err := LoadRequest(cat, args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// flags take precedence over both the request and the environment
	if *workers > 0 {
		req.Workers = *workers
	}
	if *topk > 0 {
		req.TopK = *topk
	}
	if *timeout > 0 {
		req.Timeout = *timeout
	}

	os.Exit(runSearch(cat, req, cfg, *jsonOut))
}
