// Package seed holds the reference sectors and projects loaded into an empty
// catalog outside production.
package seed

import (
	"embed"
	"fmt"

	"climatesolutions/models"

	"github.com/goccy/go-json"
)

//go:embed data/*.json
var dataFS embed.FS

type Data struct {
	Sectors  []models.Sector
	Projects []models.Project
}

func Load() (*Data, error) {
	var data Data
	if err := decode("data/sectorData.json", &data.Sectors); err != nil {
		return nil, err
	}
	if err := decode("data/projectData.json", &data.Projects); err != nil {
		return nil, err
	}
	return &data, nil
}

func decode(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
