package database

import (
	"context"
	"fmt"
	"maps"

	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// InsertNow inserts values into the current table, clears the state and
// reports the execution status.
//
//	ok, err := db.Table("users").InsertNow(ctx, map[string]any{"name": "alice"})
func (d *Database) InsertNow(ctx context.Context, values map[string]any) (bool, error) {
	return d.Insert(values).runNow(ctx)
}

// UpdateByKey updates the row identified by primaryKey. The key's value is
// taken from values and left out of the SET list; the update is constrained
// by primaryKey = value. Predicates chained before are kept.
func (d *Database) UpdateByKey(ctx context.Context, values map[string]any, primaryKey string) (bool, error) {
	keyValue, ok := values[primaryKey]
	if primaryKey == "" || !ok {
		d.Clear()
		return false, fmt.Errorf("%w: primary key %q missing from update values", ErrConfiguration, primaryKey)
	}

	set := maps.Clone(values)
	delete(set, primaryKey)

	return d.Update(set).Where(primaryKey, "=", keyValue, query.And).runNow(ctx)
}

// DeleteByKey deletes the rows where key = value. A blank key or nil value is
// rejected, so it never deletes an unfiltered table.
func (d *Database) DeleteByKey(ctx context.Context, key string, value any) (bool, error) {
	if key == "" || value == nil {
		d.Clear()
		return false, fmt.Errorf("%w: delete needs both a key and a value", ErrConfiguration)
	}

	return d.Delete().Where(key, "=", value, query.And).runNow(ctx)
}

func (d *Database) runNow(ctx context.Context) (bool, error) {
	defer d.Clear()

	if err := d.execute(ctx); err != nil {
		return false, err
	}
	return true, nil
}
