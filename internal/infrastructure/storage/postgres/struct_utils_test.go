package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

type mockRecord struct {
	entity.BaseRecord
	IMEI   imei.IMEI `db:"imei" json:"imei"`
	Name   string    `db:"name" json:"name"`
	Hidden string    `db:"-" json:"hidden"`
	NoTag  string
}

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockRecord]()

	expected := []string{
		"id", "version", "created_at", "updated_at", "created_by", "updated_by",
		"imei", "name",
	}
	assert.Equal(t, expected, cols)
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_FlattensEmbedded(t *testing.T) {
	rec := mockRecord{
		BaseRecord: entity.NewBaseRecord("tester"),
		IMEI:       imei.MustParse("356938035643809"),
		Name:       "Test Name",
		Hidden:     "should not appear",
		NoTag:      "should not appear",
	}
	rec.Version = 5

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "tester", m["created_by"])
	assert.Equal(t, rec.IMEI, m["imei"])
	assert.Equal(t, "Test Name", m["name"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "hidden")
	assert.Len(t, m, 8)
}

func TestStructToMap_PointerInput(t *testing.T) {
	rec := &mockRecord{BaseRecord: entity.NewBaseRecord("tester"), Name: "ptr"}
	m := StructToMap(rec)
	assert.Equal(t, "ptr", m["name"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

func TestStructToMap_ZeroIDPreserved(t *testing.T) {
	var rec mockRecord
	m := StructToMap(rec)
	assert.Equal(t, id.Nil(), m["id"])
}
