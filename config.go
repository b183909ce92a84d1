package main

import (
	"log"
	"os"

	"gopkg.in/gcfg.v1"

	"github.com/nicospum/rendija2simspum/quantum"
)

// defaultsFile is read at startup when present; the setup dialog then offers
// its values as defaults. Everything remains adjustable at runtime.
const defaultsFile = "doubleslit.ini"

// fileConfig mirrors the ini layout:
//
//	[experiment]
//	slit-count = 2
//	slit-width = 0.1
//	slit-separation = 0.2
//	kind = electron
//	speed = 3.0
//	dispersion = 1.0
//	seed = 42
type fileConfig struct {
	Experiment struct {
		SlitCount      int     `gcfg:"slit-count"`
		SlitWidth      float64 `gcfg:"slit-width"`
		SlitSeparation float64 `gcfg:"slit-separation"`
		Kind           string  `gcfg:"kind"`
		Speed          float64 `gcfg:"speed"`
		Dispersion     float64 `gcfg:"dispersion"`
		Seed           int64   `gcfg:"seed"`
	}
}

// loadDefaults returns the experiment defaults, overridden by the ini file
// when one exists, plus the RNG seed. A broken file is logged and ignored:
// startup must not fail over a config typo.
func loadDefaults(path string) (quantum.Params, int64) {
	params := quantum.DefaultParams()
	seed := int64(1)

	if _, err := os.Stat(path); err != nil {
		return params, seed
	}

	var cfg fileConfig
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		log.Printf("ignoring %s: %v", path, err)
		return params, seed
	}
	log.Printf("loaded defaults from %s", path)

	e := cfg.Experiment
	if e.SlitCount != 0 {
		params.SetSlitCount(e.SlitCount)
	}
	if e.SlitWidth != 0 {
		params.SetSlitWidth(e.SlitWidth)
	}
	if e.SlitSeparation != 0 {
		params.SetSlitSeparation(e.SlitSeparation)
	}
	if e.Kind != "" {
		params.SetKind(quantum.ParseKind(e.Kind))
	}
	if e.Speed != 0 {
		params.SetSpeed(e.Speed)
	}
	if e.Dispersion != 0 {
		params.SetDispersion(e.Dispersion)
	}
	if e.Seed != 0 {
		seed = e.Seed
	}
	return params, seed
}
