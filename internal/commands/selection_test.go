package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

func TestResolveCategories(t *testing.T) {
	templates := map[string][]uint8{
		"clothing":    {22, 23, 33, 68},
		"Electronics": {1, 2, 3, 4, 5},
	}
	available := []models.Category{{ID: 3}, {ID: 23}, {ID: 7}}

	testCases := []struct {
		selection string
		expected  []uint8
	}{
		{"1,3", []uint8{1, 3}},
		{" 3 , 3, 1 ", []uint8{3, 1}},
		{"all", []uint8{3, 23, 7}},
		{"none", nil},
		{"", nil},
		{"electronics", []uint8{1, 2, 3, 4, 5}},
		{"CLOTHING,7", []uint8{22, 23, 33, 68, 7}},
	}

	for _, tc := range testCases {
		got, err := ResolveCategories(tc.selection, templates, available)
		require.NoError(t, err, tc.selection)
		assert.Equal(t, tc.expected, got, tc.selection)
	}
}

func TestResolveCategories_Unknown(t *testing.T) {
	for _, sel := range []string{"furniture", "256", "-1"} {
		_, err := ResolveCategories(sel, nil, nil)
		require.Error(t, err, sel)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}
