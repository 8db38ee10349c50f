package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/domain"
)

// Reclassifier rewrites legacy category values stored on historical
// entries to their canonical names. Live classification only accepts
// canonical names; this remediation pass is the one place numeric
// legacy codes are still understood.
type Reclassifier struct {
	entries domain.EntryRepository
	log     *zap.Logger
}

func NewReclassifier(entries domain.EntryRepository, log *zap.Logger) *Reclassifier {
	return &Reclassifier{entries: entries, log: log}
}

// ReclassifyHistorical applies each old -> new category rewrite across
// all product types and returns rows changed per pair. Idempotent:
// once every entry carries the new value, a rerun changes zero rows.
func (r *Reclassifier) ReclassifyHistorical(ctx context.Context, mapping map[string]string) (map[string]int64, error) {
	if len(mapping) == 0 {
		return nil, domain.ValidationError{Field: "mapping", Reason: "must not be empty"}
	}
	for old, canonical := range mapping {
		if old == "" || canonical == "" {
			return nil, domain.ValidationError{Field: "mapping", Reason: "category names must not be empty"}
		}
		if old == canonical {
			return nil, domain.ValidationError{Field: "mapping", Reason: "category " + old + " maps to itself"}
		}
		// A target that is also a source would cascade on rerun and
		// break idempotency.
		if _, chained := mapping[canonical]; chained {
			return nil, domain.ValidationError{Field: "mapping", Reason: "category " + canonical + " is both source and target"}
		}
	}

	olds := make([]string, 0, len(mapping))
	for old := range mapping {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	changed := make(map[string]int64, len(mapping))
	for _, old := range olds {
		n, err := r.entries.UpdateCategory(ctx, "", old, mapping[old])
		if err != nil {
			return nil, err
		}
		changed[old] = n
		if n > 0 {
			r.log.Info("historical categories reclassified",
				zap.String("from", old),
				zap.String("to", mapping[old]),
				zap.Int64("entries", n),
			)
		}
	}
	return changed, nil
}
