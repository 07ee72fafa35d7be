package mapper

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Field is a canonical product field a spreadsheet column can map to.
type Field string

const (
	FieldName          Field = "productName"
	FieldDescription   Field = "productDescription"
	FieldPrice         Field = "price"
	FieldQuantity      Field = "quantity"
	FieldSKU           Field = "sku"
	FieldAlternateSKUs Field = "alternateSkus"
	FieldSupplier      Field = "supplier"
	FieldCategory      Field = "category"
)

// Fields lists every canonical field in a fixed order.
var Fields = []Field{
	FieldName, FieldDescription, FieldPrice, FieldQuantity,
	FieldSKU, FieldAlternateSKUs, FieldSupplier, FieldCategory,
}

// Mapping assigns canonical fields to column names. Columns that map
// to nothing are absent.
type Mapping map[string]Field

// ColumnFor returns the first column, in the given column order, that
// maps to the field.
func (m Mapping) ColumnFor(columns []string, f Field) (string, bool) {
	for _, col := range columns {
		if m[col] == f {
			return col, true
		}
	}
	return "", false
}

// FieldMapper infers a column-to-field mapping from a header row.
type FieldMapper interface {
	Map(ctx context.Context, columns []string) (Mapping, error)
}

// Resolver maps header rows to canonical fields. It tries an exact
// keyword pass first, then the oracle, then a loose substring match,
// and caches results per distinct header sequence. Resolve never
// fails; in the worst case the mapping is empty.
type Resolver struct {
	oracle FieldMapper
	cache  *lru.Cache[string, Mapping]
	log    *zap.Logger
}

// NewResolver creates a resolver. The oracle may be nil when no
// inference backend is configured.
func NewResolver(cfg Config, oracle FieldMapper, log *zap.Logger) (*Resolver, error) {
	cache, err := lru.New[string, Mapping](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{oracle: oracle, cache: cache, log: log}, nil
}

func cacheKey(columns []string) string {
	return strings.Join(columns, "\x1f")
}

// Resolve returns a mapping for the header row.
func (r *Resolver) Resolve(ctx context.Context, columns []string) Mapping {
	key := cacheKey(columns)
	if m, ok := r.cache.Get(key); ok {
		return m
	}

	m := mapExact(columns)
	if len(m) == 0 {
		m = r.infer(ctx, columns)
	}

	r.cache.Add(key, m)
	return m
}

func (r *Resolver) infer(ctx context.Context, columns []string) Mapping {
	if r.oracle != nil {
		m, err := r.oracle.Map(ctx, columns)
		if err == nil {
			return m
		}
		r.log.Warn("column inference failed, falling back to loose matching",
			zap.Error(err))
	}
	return mapLoose(columns)
}
