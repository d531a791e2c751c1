// Package config loads generator settings from a JSON file, falling back to
// defaults when the file is absent, and supports hot reload via fsnotify.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Generator GeneratorSettings `json:"generator"`
	Server    ServerSettings    `json:"server"`
	Viewer    ViewerSettings    `json:"viewer"`
}

type GeneratorSettings struct {
	Points        int     `json:"points"`
	Seed          uint64  `json:"seed"`
	Frequency     float64 `json:"frequency"`
	Octaves       int     `json:"octaves"`
	Falloff       float64 `json:"falloff"`
	SeaLevel      float64 `json:"seaLevel"`
	Relaxation    int     `json:"relaxation"`
	ErosionPasses int     `json:"erosionPasses"`
	FillSinks     bool    `json:"fillSinks"`
	Lakes         bool    `json:"lakes"`
	Agents        int     `json:"agents"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

type ViewerSettings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Default returns the settings used when no settings file exists.
func Default() Settings {
	return Settings{
		Generator: GeneratorSettings{
			Points:        600,
			Seed:          1,
			Frequency:     2.0,
			Octaves:       5,
			Falloff:       0.5,
			SeaLevel:      0.5,
			Relaxation:    2,
			ErosionPasses: 3,
			Lakes:         true,
			Agents:        6,
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 100,
		},
		Viewer: ViewerSettings{
			Width:  1280,
			Height: 720,
		},
	}
}

// Load reads settings from path. A missing file is not an error; defaults
// are returned instead.
func Load(path string) (Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&settings); err != nil {
		return Default(), fmt.Errorf("error parsing %s: %w", path, err)
	}

	fmt.Printf("Loaded settings: %d points, seed %d, %d erosion passes\n",
		settings.Generator.Points, settings.Generator.Seed, settings.Generator.ErosionPasses)

	return settings, nil
}
