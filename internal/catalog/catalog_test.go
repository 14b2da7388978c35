package catalog

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	dress, err := c.Get("anaqa-prod1")
	require.NoError(t, err)
	assert.Equal(t, items.TypeRental, dress.Type)
	assert.Equal(t, items.KindPurchasable, dress.Kind())
	require.NotNil(t, dress.Product)
	require.NotNil(t, dress.Product.RentalTerms)
	assert.Equal(t, "3 أيام", dress.Product.RentalTerms.MinDuration)

	workshop, err := c.Get("lamsa-serv1")
	require.NoError(t, err)
	assert.Equal(t, items.KindService, workshop.Kind())
	require.NotNil(t, workshop.Service)
	assert.Equal(t, "3 ساعات", workshop.Service.Duration)
}

func TestGetUnknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Get("nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	first, err := c.Get("common-prod1")
	require.NoError(t, err)
	first.Tags[0] = "changed"

	again, err := c.Get("common-prod1")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Tags[0])
}

const sample = `
products:
  - id: p1
    name: Gown
    type: rental
    category: Dresses
    storeSlug: Anaqa
  - id: p2
    name: Cake
    type: بيع
    category: Sweets
    storeSlug: mathaq
services:
  - id: s1
    name: Haircut
    category: dresses
    storeSlug: anaqa
`

func TestList(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	ids := func(list []items.Item) []string {
		out := make([]string, 0, len(list))
		for _, it := range list {
			out = append(out, it.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"p1", "p2", "s1"}},
		{"purchasable", Filter{Kind: items.KindPurchasable}, []string{"p1", "p2"}},
		{"services", Filter{Kind: items.KindService}, []string{"s1"}},
		{"category folds case", Filter{Category: "DRESSES"}, []string{"p1", "s1"}},
		{"store", Filter{Store: "anaqa"}, []string{"p1", "s1"}},
		{"combined", Filter{Kind: items.KindService, Store: "anaqa"}, []string{"s1"}},
		{"no match", Filter{Store: "elsewhere"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.List(tt.filter)))
		})
	}
}

func TestServicesDefaultType(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	svc, err := c.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, items.TypeService, svc.Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"not yaml", "products: [", errors.IsCorruptData},
		{"missing id", "products:\n  - name: x\n", errors.IsValidationError},
		{"duplicate id", "products:\n  - id: a\nservices:\n  - id: a\n", errors.IsValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "bad.yaml")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestLoadFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/catalog.yaml", []byte(sample), 0o644))

	c, err := LoadFs(fs, "/etc/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = LoadFs(fs, "/missing.yaml")
	assert.True(t, errors.IsStorageUnavailable(err))

	seeded, err := LoadFs(fs, "")
	require.NoError(t, err)
	assert.Greater(t, seeded.Len(), 3)
}

func TestCategories(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dresses", "Sweets", "dresses"}, c.Categories())
}
