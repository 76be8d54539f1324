package sqlite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func TestInsertReadRoundTrip(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{
		"manufacturer": "Dell",
		"model":        "X",
	}, types.SourceManual, "alice")
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Dell", got.Fields["manufacturer"])
	assert.Equal(t, "X", got.Fields["model"])
	assert.Equal(t, types.SourceManual, got.DataSource)
	assert.Equal(t, "alice", got.CreatedBy)
	assert.True(t, got.ModifiedDate.Equal(types.ModifiedNever), "fresh record keeps the sentinel")
	assert.False(t, got.EverModified())
	assert.False(t, got.CreatedDate.IsZero())
}

func TestInsertGeneratesAssetNo(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"manufacturer": "Dell"}, types.SourceManual, "alice")
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "AST000001", got.AssetNo())

	// An explicit asset number is kept as-is.
	id2, err := s.Insert(map[string]string{"asset_no": "CUSTOM-7"}, types.SourceManual, "alice")
	require.NoError(t, err)
	got2, err := s.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-7", got2.AssetNo())
}

func TestAssetNoMonotonicAcrossDeletes(t *testing.T) {
	s := setupStore(t)

	id1, err := s.Insert(nil, types.SourceManual, "alice")
	require.NoError(t, err)
	a1, err := s.Get(id1)
	require.NoError(t, err)

	ok, err := s.Delete(id1, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	id2, err := s.Insert(nil, types.SourceManual, "alice")
	require.NoError(t, err)
	a2, err := s.Get(id2)
	require.NoError(t, err)

	// The sequence does not reuse numbers after a delete shrinks the table.
	assert.Equal(t, "AST000001", a1.AssetNo())
	assert.Equal(t, "AST000002", a2.AssetNo())
}

func TestInsertAuditEntry(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"manufacturer": "Dell"}, types.SourceManual, "alice")
	require.NoError(t, err)

	history, err := s.History(id)
	require.NoError(t, err)
	require.Len(t, history, 1)

	entry := history[0]
	assert.Equal(t, types.ActionInsert, entry.Action)
	assert.Empty(t, entry.FieldName)
	assert.Empty(t, entry.OldValue)
	assert.Equal(t, "alice", entry.ChangedBy)

	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(entry.NewValue), &fields))
	assert.Equal(t, "Dell", fields["manufacturer"])
	assert.Equal(t, "AST000001", fields["asset_no"])
}

func TestUpdateBumpsAndAudits(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	ok, err := s.Update(id, map[string]string{"model": "Y"}, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Y", got.Fields["model"])
	assert.Equal(t, "bob", got.ModifiedBy)
	assert.Equal(t, "alice", got.CreatedBy, "created_by is never rewritten")
	assert.True(t, got.EverModified())

	history, err := s.History(id)
	require.NoError(t, err)

	var update *types.AuditEntry
	for i := range history {
		if history[i].Action == types.ActionUpdate {
			update = &history[i]
		}
	}
	require.NotNil(t, update)
	assert.Equal(t, "model", update.FieldName)
	assert.Equal(t, "X", update.OldValue)
	assert.Equal(t, "Y", update.NewValue)
	assert.Equal(t, "bob", update.ChangedBy)
}

func TestUpdateRightAfterInsertStampsLater(t *testing.T) {
	s := setupStore(t)

	// Insert and update land within the same wall-clock second; sub-second
	// timestamp precision must still tell the two stamps apart.
	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	ok, err := s.Update(id, map[string]string{"model": "Y"}, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.True(t, got.ModifiedDate.After(got.CreatedDate))
	assert.True(t, got.EverModified())
}

func TestUpdatePerFieldAuditEntries(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X", "status": "Active"}, types.SourceManual, "alice")
	require.NoError(t, err)

	ok, err := s.Update(id, map[string]string{"model": "Y", "status": "Retired"}, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	history, err := s.History(id)
	require.NoError(t, err)

	byField := map[string]types.AuditEntry{}
	for _, e := range history {
		if e.Action == types.ActionUpdate {
			byField[e.FieldName] = e
		}
	}
	require.Len(t, byField, 2, "one entry per changed field")
	assert.Equal(t, "Retired", byField["status"].NewValue)
	assert.Equal(t, "Y", byField["model"].NewValue)
}

func TestUpdateMissingRecord(t *testing.T) {
	s := setupStore(t)

	ok, err := s.Update(999, map[string]string{"model": "Y"}, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateAlwaysBumpsModified(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	// Same value: no audit entry, but the bump still happens.
	ok, err := s.Update(id, map[string]string{"model": "X"}, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.ModifiedBy)
	assert.False(t, got.ModifiedDate.Equal(types.ModifiedNever))

	history, err := s.History(id)
	require.NoError(t, err)
	for _, e := range history {
		assert.NotEqual(t, types.ActionUpdate, e.Action, "unchanged field writes no UPDATE entry")
	}
}

func TestDeleteIsSoftAndTerminal(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	ok, err := s.Delete(id, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)

	results, err := s.Search(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results, "deleted records are filtered from search")

	// Second delete of the same id reports not found.
	ok, err = s.Delete(id, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// The audit trail survives, with the DELETE entry recorded before the
	// row went away.
	history, err := s.History(id)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, types.ActionDelete, history[0].Action)
}

func TestSearchFilterSemantics(t *testing.T) {
	s := setupStore(t)

	_, err := s.Insert(map[string]string{"manufacturer": "Dell Inc", "status": "Active"}, types.SourceManual, "alice")
	require.NoError(t, err)
	_, err = s.Insert(map[string]string{"manufacturer": "HP", "status": "active "}, types.SourceManual, "alice")
	require.NoError(t, err)

	// Text-like column: substring containment.
	results, err := s.Search(map[string]string{"manufacturer": "dell"}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dell Inc", results[0].Fields["manufacturer"])

	// Non-text column: exact equality, trailing space does not match.
	results, err = s.Search(map[string]string{"status": "Active"}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dell Inc", results[0].Fields["manufacturer"])
}

func TestSearchCombinesFiltersAndOrders(t *testing.T) {
	s := setupStore(t)

	id1, err := s.Insert(map[string]string{"manufacturer": "Dell", "status": "Active"}, types.SourceManual, "alice")
	require.NoError(t, err)
	id2, err := s.Insert(map[string]string{"manufacturer": "Dell", "status": "Retired"}, types.SourceManual, "alice")
	require.NoError(t, err)

	// AND semantics.
	results, err := s.Search(map[string]string{"manufacturer": "Dell", "status": "Retired"}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id2, results[0].ID)

	// Most recently modified first.
	ok, err := s.Update(id1, map[string]string{"model": "M1"}, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	results, err = s.Search(map[string]string{"manufacturer": "Dell"}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, id1, results[0].ID)

	// Limit caps the result count.
	results, err = s.Search(map[string]string{"manufacturer": "Dell"}, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchDropsUnknownColumns(t *testing.T) {
	s := setupStore(t)

	_, err := s.Insert(map[string]string{"manufacturer": "Dell"}, types.SourceManual, "alice")
	require.NoError(t, err)

	results, err := s.Search(map[string]string{"no_such_column": "x"}, 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRequestLabel(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Nil(t, got.LabelRequestedDate)

	ok, err := s.RequestLabel(id, "bob")
	require.NoError(t, err)
	require.True(t, ok)

	got, err = s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got.LabelRequestedDate)
	assert.Equal(t, "bob", got.ModifiedBy)
}

func TestCheckUniqueConflicts(t *testing.T) {
	s := setupStore(t)

	_, err := s.Insert(map[string]string{"serial_number": "SN1"}, types.SourceManual, "alice")
	require.NoError(t, err)

	conflicts, err := s.CheckUniqueConflicts(
		map[string]string{"serial_number": " SN1 "},
		[]string{"Serial Number"}, "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Serial Number", conflicts[0].FieldName)
	assert.Equal(t, "SN1", conflicts[0].FieldValue)
	require.NotNil(t, conflicts[0].Existing)
	assert.Equal(t, "SN1", conflicts[0].Existing.Fields["serial_number"])

	// Empty values and unknown fields are skipped.
	conflicts, err = s.CheckUniqueConflicts(
		map[string]string{"serial_number": "  "},
		[]string{"Serial Number", "No Such Field"}, "")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckUniqueConflictsIgnoresDeleted(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"serial_number": "SN1"}, types.SourceManual, "alice")
	require.NoError(t, err)
	ok, err := s.Delete(id, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	conflicts, err := s.CheckUniqueConflicts(
		map[string]string{"serial_number": "SN1"},
		[]string{"Serial Number"}, "")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestUniqueValues(t *testing.T) {
	s := setupStore(t)

	for _, m := range []string{"Dell", "HP", "Dell"} {
		_, err := s.Insert(map[string]string{"manufacturer": m}, types.SourceManual, "alice")
		require.NoError(t, err)
	}

	values, err := s.UniqueValues("manufacturer")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dell", "HP"}, values)
}

func TestRecentChanges(t *testing.T) {
	s := setupStore(t)

	id, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)
	ok, err := s.Update(id, map[string]string{"model": "Y"}, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	recent, err := s.RecentChanges(7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, id, recent[0].ID)
}

func TestStats(t *testing.T) {
	s := setupStore(t)

	_, err := s.Insert(map[string]string{"model": "X"}, types.SourceManual, "alice")
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAssets)
	assert.Equal(t, int64(1), stats.TotalAuditEntries)
	assert.Equal(t, s.Config().DatabasePath, stats.DatabasePath)
}
