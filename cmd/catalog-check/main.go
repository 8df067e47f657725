package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/config"
	"github.com/angelmondragon/clinic-checkout/pkg/env"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalog-check"})

	_ = godotenv.Load()

	path := flag.String("file", env.Get(config.EnvCatalogPath, ""), "catalog snapshot to validate")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -file or "+config.EnvCatalogPath)
		os.Exit(2)
	}
	ctx := logg.WithField(context.Background(), "catalog_path", *path)

	cat, err := catalog.LoadFile(*path)
	if err != nil {
		dump := pkgerrors.Dump(err)
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(dump)
		logg.Error(ctx, "catalog rejected", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"products":       len(cat.Products),
		"services":       len(cat.Services),
		"bundles":        len(cat.Bundles),
		"bxgy_rules":     len(cat.BXGYRules),
		"upsell_rules":   len(cat.UpsellRules),
		"downsell_rules": len(cat.DownsellRules),
		"payment_plans":  len(cat.PaymentPlans),
		"scaled_offers":  len(cat.ScaledOffers),
		"credits":        len(cat.Credits),
	}), "catalog valid")
}
