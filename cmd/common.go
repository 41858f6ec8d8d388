/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valpere/opustran/internal/detector"
	"github.com/valpere/opustran/internal/engine"
	"github.com/valpere/opustran/internal/facade"
	"github.com/valpere/opustran/internal/language"
	"github.com/valpere/opustran/internal/store"
	"github.com/valpere/opustran/internal/validator"
)

// buildFacade wires the registry, model runtime, and optional catalog into a
// facade. The language detector is slow to construct and is built only when
// withDetector is set or output checking is enabled. The returned cleanup
// closes the catalog.
func buildFacade(withDetector bool) (*facade.Facade, func(), error) {
	registry := language.Default()
	loader := engine.NewHubLoader(cfg.Runtime.RuntimeConfig)

	opts := []facade.Option{
		facade.WithNamespace(cfg.Runtime.Namespace),
		facade.WithLogger(logger),
	}

	if cfg.Translate.ProtectMarkup {
		opts = append(opts, facade.WithMarkupProtection())
	}

	if withDetector || cfg.Translate.CheckOutput {
		det, err := detector.New(registry.Codes())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build language detector: %w", err)
		}
		if withDetector {
			opts = append(opts, facade.WithDetector(det))
		}
		if cfg.Translate.CheckOutput {
			opts = append(opts, facade.WithOutputCheck(validator.New(det)))
		}
	}

	cleanup := func() {}
	if cfg.DB.Enabled {
		db, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, facade.WithRecorder(db))
		cleanup = func() { db.Close() }
	}

	return facade.New(registry, loader, opts...), cleanup, nil
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
