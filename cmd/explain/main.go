// Package main regenerates attribution reports from saved scoring artifacts
// without refitting the model.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"wallet-credit-lab/internal/calibration"
	"wallet-credit-lab/internal/explain"
	"wallet-credit-lab/internal/pipeline"
	"wallet-credit-lab/internal/reporting"
)

func main() {
	// Parse flags
	artifactDir := flag.String("artifact-dir", "docs", "Directory holding credit_model.json, scaler.json and wallet_features.csv")
	wallet := flag.String("wallet", "", "Single wallet to explain (empty for all)")
	topN := flag.Int("top", 5, "Number of per-wallet feature drivers to print")
	flag.Parse()

	model, scaler, err := calibration.LoadArtifacts(*artifactDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading artifacts: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(filepath.Join(*artifactDir, pipeline.FeaturesFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading features: %v\n", err)
		os.Exit(1)
	}
	vectors, err := reporting.ParseFeaturesCSV(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing features: %v\n", err)
		os.Exit(1)
	}

	if *wallet != "" {
		filtered := vectors[:0]
		for _, v := range vectors {
			if v.WalletID == *wallet {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) == 0 {
			fmt.Fprintf(os.Stderr, "Wallet %s not found in %s\n", *wallet, pipeline.FeaturesFile)
			os.Exit(1)
		}
		vectors = filtered
	}

	reporter := explain.NewReporter(model, scaler)

	attribution, err := reporter.GlobalAttribution()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing attribution: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("=== Global Feature Attribution ===")
	for _, row := range attribution {
		fmt.Printf("  %-20s %.4f\n", row.Feature, row.Importance)
	}

	drivers, err := reporter.WalletDrivers(vectors, *topN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing wallet drivers: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n=== Per-Wallet Drivers ===")
	for _, d := range drivers {
		fmt.Printf("%s\n", d.WalletID)
		for _, fc := range d.Features {
			fmt.Printf("  %-20s %+.2f\n", fc.Feature, fc.Contribution)
		}
	}
}
