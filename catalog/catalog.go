package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"pricewatch/models"
)

// Load reads the product catalog from a JSON file. The file holds an ordered
// array of products; that order is the order the tracker visits them in.
// A missing or malformed file is fatal to the run.
func Load(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewWatchError(models.ErrCodeConfig,
			fmt.Sprintf("read catalog %q", path), err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, models.NewWatchError(models.ErrCodeConfig,
			fmt.Sprintf("parse catalog %q", path), err)
	}

	return products, nil
}
