package mapper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newResolver(t *testing.T, oracle FieldMapper) *Resolver {
	t.Helper()
	r, err := NewResolver(Config{CacheSize: 16}, oracle, zap.NewNop())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

type stubOracle struct {
	mapping Mapping
	err     error
	calls   int
}

func (s *stubOracle) Map(_ context.Context, _ []string) (Mapping, error) {
	s.calls++
	return s.mapping, s.err
}

func TestMapExactKeywords(t *testing.T) {
	m := mapExact([]string{"Product Name", "SKU", "Price", "Stock", "Warehouse Zone"})

	assert.Equal(t, FieldName, m["Product Name"])
	assert.Equal(t, FieldSKU, m["SKU"])
	assert.Equal(t, FieldPrice, m["Price"])
	assert.Equal(t, FieldQuantity, m["Stock"])
	_, mapped := m["Warehouse Zone"]
	assert.False(t, mapped)
}

func TestMapExactIsCaseSensitive(t *testing.T) {
	m := mapExact([]string{"PRODUCT NAME", "pRiCe"})
	assert.Empty(t, m)
}

func TestMapLooseSubstrings(t *testing.T) {
	m := mapLoose([]string{"ITEM DESCRIPTION", "Unit-Cost ($)", "Alternate SKUs", "Vendor Name"})

	assert.Equal(t, FieldDescription, m["ITEM DESCRIPTION"])
	assert.Equal(t, FieldPrice, m["Unit-Cost ($)"])
	assert.Equal(t, FieldAlternateSKUs, m["Alternate SKUs"])
	assert.Equal(t, FieldSupplier, m["Vendor Name"])
}

func TestResolveSkipsOracleWhenKeywordsMatch(t *testing.T) {
	oracle := &stubOracle{}
	r := newResolver(t, oracle)

	m := r.Resolve(context.Background(), []string{"Name", "Price"})
	assert.Equal(t, FieldName, m["Name"])
	assert.Equal(t, 0, oracle.calls)
}

func TestResolveUsesOracleForUnknownHeaders(t *testing.T) {
	oracle := &stubOracle{mapping: Mapping{"Artikelname": FieldName}}
	r := newResolver(t, oracle)

	m := r.Resolve(context.Background(), []string{"Artikelname"})
	assert.Equal(t, FieldName, m["Artikelname"])
	assert.Equal(t, 1, oracle.calls)
}

func TestResolveFallsBackToLooseOnOracleFailure(t *testing.T) {
	oracle := &stubOracle{err: errors.New("quota exceeded")}
	r := newResolver(t, oracle)

	m := r.Resolve(context.Background(), []string{"THE PRICE COLUMN"})
	assert.Equal(t, FieldPrice, m["THE PRICE COLUMN"])
}

func TestResolveNilOracleFallsBackToLoose(t *testing.T) {
	r := newResolver(t, nil)

	m := r.Resolve(context.Background(), []string{"qty on hand"})
	assert.Equal(t, FieldQuantity, m["qty on hand"])
}

func TestResolveCachesPerHeaderSequence(t *testing.T) {
	oracle := &stubOracle{mapping: Mapping{"Artikelname": FieldName}}
	r := newResolver(t, oracle)

	cols := []string{"Artikelname"}
	r.Resolve(context.Background(), cols)
	r.Resolve(context.Background(), cols)
	assert.Equal(t, 1, oracle.calls)
}

func TestResolveNeverReturnsNilMapping(t *testing.T) {
	r := newResolver(t, nil)

	m := r.Resolve(context.Background(), []string{"zzz", "yyy"})
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestColumnForRespectsColumnOrder(t *testing.T) {
	cols := []string{"Name", "Product"}
	m := Mapping{"Name": FieldName, "Product": FieldName}

	col, ok := m.ColumnFor(cols, FieldName)
	assert.True(t, ok)
	assert.Equal(t, "Name", col)

	_, ok = m.ColumnFor(cols, FieldPrice)
	assert.False(t, ok)
}

func TestParseMappingToleratesCodeFences(t *testing.T) {
	text := "```json\n{\"Artikelname\": \"productName\", \"Zone\": null}\n```"
	m, err := parseMapping(text, []string{"Artikelname", "Zone"})
	assert.NoError(t, err)
	assert.Equal(t, Mapping{"Artikelname": FieldName}, m)
}

func TestParseMappingRejectsUnknownFieldsAndColumns(t *testing.T) {
	text := `{"Artikelname": "warpDrive", "Ghost": "price"}`
	m, err := parseMapping(text, []string{"Artikelname"})
	assert.NoError(t, err)
	assert.Empty(t, m)
}

func TestParseMappingMalformedReply(t *testing.T) {
	_, err := parseMapping("sorry, I cannot help with that", []string{"A"})
	assert.Error(t, err)
}
