package main

import (
	"fmt"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/config"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/state"
)

// openCatalog opens the database given by --db, falling back to the
// configured one.
func openCatalog(dbPath string) (*state.Manager, *catalog.Catalog, error) {
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", errmsg.OpConfigLoad, err)
		}
		dbPath = cfg.DBPath
	}
	mgr, err := state.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return mgr, catalog.New(mgr.DB()), nil
}
