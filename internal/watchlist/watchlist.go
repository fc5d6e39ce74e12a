// Package watchlist loads the tracked-product list from a JSON file.
package watchlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/pkg/errors"
)

type fileFormat struct {
	Name  string `json:"name"`
	Items []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"items"`
}

// Load reads a watchlist file and returns its name and items.
// A watchlist with no usable items refuses to load.
func Load(path string) (string, []domain.WatchItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, errors.NewConfiguration("read watchlist", err)
	}

	var file fileFormat
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", nil, errors.NewConfiguration("parse watchlist", err)
	}

	name := file.Name
	if name == "" {
		name = filepath.Base(path)
	}

	var items []domain.WatchItem
	for _, it := range file.Items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			continue
		}
		label := strings.TrimSpace(it.Label)
		if label == "" {
			label = id
		}
		items = append(items, domain.WatchItem{ID: id, Label: label})
	}

	if len(items) == 0 {
		return "", nil, errors.NewValidation(path, "watchlist has no items")
	}

	return name, items, nil
}
