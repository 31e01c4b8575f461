package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

func TestCoerce_MapsColumns(t *testing.T) {
	block := CanonicalHeader + "\n" +
		`1,"Laptop, 15 inch","LP-100","0001",3,Electronics,2,"$1,234.50",45%,"$555.53"` + "\n"

	records, stats, err := Coercer{}.Coerce(block)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Laptop, 15 inch", records[0].Description)
	assert.Equal(t, "LP-100", records[0].ItemNumber)
	assert.Equal(t, "0001", records[0].UPCNumber)
	assert.Equal(t, uint8(3), records[0].Category)
	assert.Equal(t, "Electronics", records[0].CategoryDescription)
	assert.Equal(t, 2.0, records[0].Quantity)
	assert.Equal(t, 1234.5, records[0].RetailPerItem)
	assert.Equal(t, 45.0, records[0].LiquidationRate)
	assert.InDelta(t, 555.53, records[0].LiquidationPrice, 1e-9)
	assert.Equal(t, Stats{Tables: 1, Rows: 1}, stats)
}

func TestCoerce_ShortRowsAreSkipped(t *testing.T) {
	block := CanonicalHeader + "\n" +
		"1,a,b,c,1,d,1,1,1,1\n" +
		"Item list\n" +
		"2,a,b,c,1,d,1,1,1\n" +
		"3,a,b,c,1,d,1,1,1,1,extra\n"

	records, stats, err := Coercer{}.Coerce(block)

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 2, stats.Skipped)
}

func TestCoerce_BadFieldsTakeDefaults(t *testing.T) {
	block := CanonicalHeader + "\n" + "1,Thing,X1,U1,999,Misc,lots,call us,n/a,TBD\n"

	records, stats, err := Coercer{}.Coerce(block)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Record{
		Description:         "Thing",
		ItemNumber:          "X1",
		UPCNumber:           "U1",
		CategoryDescription: "Misc",
	}, records[0])
	assert.Equal(t, 5, stats.Defaulted)
}

func TestCoerce_TokenizerErrorIsFatal(t *testing.T) {
	block := CanonicalHeader + "\n" +
		"1,a,b,c,1,d,1,1,1,1\n" +
		`2,"Widget"x,b,c,1,d,1,1,1,1` + "\n"

	records, _, err := Coercer{}.Coerce(block)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, apperr.KindCSV, apperr.KindOf(err))
}

func TestCoerce_BareQuote(t *testing.T) {
	block := CanonicalHeader + "\n" + `2,12" Pipe,b,c,1,d,1,1,1,1` + "\n"

	_, _, err := Coercer{}.Coerce(block)
	require.Error(t, err)
	assert.Equal(t, apperr.KindCSV, apperr.KindOf(err))

	records, _, err := Coercer{LazyQuotes: true}.Coerce(block)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `12" Pipe`, records[0].Description)
}

func TestCoerce_EmptyBlock(t *testing.T) {
	records, stats, err := Coercer{}.Coerce("")

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, Stats{}, stats)
}
