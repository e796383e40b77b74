package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Product is one service listing. Price is opaque text shown verbatim.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Catalog is the ordered product list. Order is insertion order, not id order.
type Catalog []Product

// UnmarshalJSON also accepts the keys written by the first release of the bot.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64   `json:"id"`
		Name        *string `json:"name"`
		Price       *string `json:"price"`
		Description *string `json:"description"`
		Nombre      string  `json:"nombre"`
		Precio      string  `json:"precio"`
		Descripcion string  `json:"descripcion"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.Name = pick(raw.Name, raw.Nombre)
	p.Price = pick(raw.Price, raw.Precio)
	p.Description = pick(raw.Description, raw.Descripcion)
	return nil
}

func pick(current *string, legacy string) string {
	if current != nil {
		return *current
	}
	return legacy
}

// NextID returns one more than the highest id in the catalog, or 1 when it is empty.
func NextID(c Catalog) int64 {
	var highest int64
	for _, p := range c {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

// Without returns a copy of the catalog with every product carrying id removed,
// and how many were dropped.
func (c Catalog) Without(id int64) (Catalog, int) {
	kept := make(Catalog, 0, len(c))
	for _, p := range c {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept, len(c) - len(kept)
}

// Validate rejects catalogs with non-positive or repeated ids.
func (c Catalog) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for i, p := range c {
		if p.ID <= 0 {
			return fmt.Errorf("%w: product at position %d has non-positive id %d", ErrInvalidCatalog, i, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// ParseProduct splits the add command payload "name;price;description".
// The description keeps any further separators.
func ParseProduct(raw string) (Product, error) {
	parts := strings.Split(raw, ";")
	if len(parts) < 3 {
		return Product{}, fmt.Errorf("%w: expected name;price;description", ErrInvalidProduct)
	}

	product := Product{
		Name:        strings.TrimSpace(parts[0]),
		Price:       strings.TrimSpace(parts[1]),
		Description: strings.TrimSpace(strings.Join(parts[2:], ";")),
	}
	if err := validate.Struct(product); err != nil {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return product, nil
}
