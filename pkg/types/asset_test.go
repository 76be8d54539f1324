package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAssetNo(t *testing.T) {
	assert.Equal(t, "AST000001", FormatAssetNo(1))
	assert.Equal(t, "AST000042", FormatAssetNo(42))
	assert.Equal(t, "AST1000000", FormatAssetNo(1000000), "wide sequences keep all digits")
}

func TestIsSystemColumn(t *testing.T) {
	assert.True(t, IsSystemColumn(ColumnID))
	assert.True(t, IsSystemColumn(ColumnIsDeleted))
	assert.False(t, IsSystemColumn(ColumnAssetNo), "asset_no is template-defined")
	assert.False(t, IsSystemColumn("manufacturer"))
}

func TestEverModified(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := &Asset{CreatedDate: created, ModifiedDate: ModifiedNever}
	assert.False(t, a.EverModified(), "sentinel means never modified")

	a.ModifiedDate = created
	assert.False(t, a.EverModified(), "modified at creation time does not count")

	a.ModifiedDate = created.Add(time.Hour)
	assert.True(t, a.EverModified())
}
