package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NextID(t *testing.T) {
	testCases := []struct {
		name     string
		catalog  Catalog
		expected int64
	}{
		{name: "empty catalog", catalog: Catalog{}, expected: 1},
		{name: "nil catalog", catalog: nil, expected: 1},
		{name: "contiguous ids", catalog: Catalog{{ID: 1}, {ID: 2}}, expected: 3},
		{name: "gaps and unordered ids", catalog: Catalog{{ID: 5}, {ID: 1}, {ID: 2}}, expected: 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			next := NextID(tc.catalog)

			// then
			assert.Equal(t, tc.expected, next)
			for _, p := range tc.catalog {
				assert.NotEqual(t, p.ID, next)
			}
		})
	}
}

func Test_ParseProduct(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    Product
		expectError error
	}{
		{
			name:     "Success - three fields",
			raw:      "Website Audit;50;Full audit of your site",
			expected: Product{Name: "Website Audit", Price: "50", Description: "Full audit of your site"},
		},
		{
			name:     "Success - fields are trimmed",
			raw:      "  Logo design ; 30 EUR ;  Two revisions  ",
			expected: Product{Name: "Logo design", Price: "30 EUR", Description: "Two revisions"},
		},
		{
			name:     "Success - description keeps separators",
			raw:      "SEO;120;Keywords; backlinks; report",
			expected: Product{Name: "SEO", Price: "120", Description: "Keywords; backlinks; report"},
		},
		{
			name:     "Success - price is opaque text",
			raw:      "Hosting;ask me;Monthly plan",
			expected: Product{Name: "Hosting", Price: "ask me", Description: "Monthly plan"},
		},
		{
			name:        "Error - too few fields",
			raw:         "Website Audit;50",
			expectError: ErrInvalidProduct,
		},
		{
			name:        "Error - empty input",
			raw:         "",
			expectError: ErrInvalidProduct,
		},
		{
			name:        "Error - blank name",
			raw:         "  ;50;desc",
			expectError: ErrInvalidProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			product, err := ParseProduct(tc.raw)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, product)
		})
	}
}

func Test_Catalog_Without(t *testing.T) {
	// given
	c := Catalog{{ID: 1}, {ID: 2}, {ID: 5}}

	// when
	kept, removed := c.Without(5)
	again, removedAgain := kept.Without(5)

	// then
	assert.Equal(t, 1, removed)
	assert.Equal(t, Catalog{{ID: 1}, {ID: 2}}, kept)
	assert.Equal(t, 0, removedAgain)
	assert.Equal(t, kept, again)
	assert.Len(t, c, 3, "source catalog is not modified")
}

func Test_Catalog_Validate(t *testing.T) {
	assert.NoError(t, Catalog{}.Validate())
	assert.NoError(t, Catalog{{ID: 3}, {ID: 1}}.Validate())
	assert.ErrorIs(t, Catalog{{ID: 1}, {ID: 1}}.Validate(), ErrInvalidCatalog)
	assert.ErrorIs(t, Catalog{{ID: 0}}.Validate(), ErrInvalidCatalog)
	assert.ErrorIs(t, Catalog{{ID: -4}}.Validate(), ErrInvalidCatalog)
}

func Test_Product_UnmarshalLegacyKeys(t *testing.T) {
	// given
	data := []byte(`[
		{"id": 1, "nombre": "Auditoría web", "precio": "50", "descripcion": "Revisión completa"},
		{"id": 2, "name": "Logo", "price": "30", "description": "Two revisions"}
	]`)

	// when
	var c Catalog
	err := json.Unmarshal(data, &c)

	// then
	require.NoError(t, err)
	assert.Equal(t, Catalog{
		{ID: 1, Name: "Auditoría web", Price: "50", Description: "Revisión completa"},
		{ID: 2, Name: "Logo", Price: "30", Description: "Two revisions"},
	}, c)
}
