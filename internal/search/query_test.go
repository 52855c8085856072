package search

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseQueryDefaults(t *testing.T) {
	q, err := ParseQuery("", "", "", "", "")
	require.NoError(t, err)
	require.Nil(t, q.AreaID)
	require.True(t, q.Dates.IsZero())
	require.Equal(t, SortNew, q.Sort)
	require.Equal(t, 1, q.Page)
}

func TestParseQueryValues(t *testing.T) {
	q, err := ParseQuery("3", "2024-03-12", "2024-03-20", "price-inc", "2")
	require.NoError(t, err)
	require.NotNil(t, q.AreaID)
	require.Equal(t, uint(3), *q.AreaID)
	require.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *q.Dates.Start)
	require.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), *q.Dates.End)
	require.Equal(t, "2024-03-12", q.Dates.StartRaw)
	require.Equal(t, SortPriceInc, q.Sort)
	require.Equal(t, "price-inc", q.SortRaw)
	require.Equal(t, 2, q.Page)
}

func TestParseQueryAllowsSameDayRange(t *testing.T) {
	q, err := ParseQuery("", "2024-03-12", "2024-03-12", "", "")
	require.NoError(t, err)
	require.Equal(t, *q.Dates.Start, *q.Dates.End)
}

func TestParseQueryRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		param string
		args  [5]string
	}{
		{"start after end", "sd", [5]string{"", "2024-03-20", "2024-03-12", "", ""}},
		{"malformed start", "sd", [5]string{"", "2024/03/12", "", "", ""}},
		{"malformed end", "ed", [5]string{"", "", "tomorrow", "", ""}},
		{"impossible date", "sd", [5]string{"", "2024-02-30", "", "", ""}},
		{"non numeric page", "p", [5]string{"", "", "", "", "two"}},
		{"zero page", "p", [5]string{"", "", "", "", "0"}},
		{"negative page", "p", [5]string{"", "", "", "", "-1"}},
		{"non numeric area", "aid", [5]string{"x", "", "", "", ""}},
		{"zero area", "aid", [5]string{"0", "", "", "", ""}},
		{"long sort key", "sk", [5]string{"", "", "", strings.Repeat("price-inc", 4), ""}},
		{"padded start", "sd", [5]string{"", "2024-03-12" + strings.Repeat(" ", 30), "", "", ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuery(tc.args[0], tc.args[1], tc.args[2], tc.args[3], tc.args[4])
			require.ErrorIs(t, err, ErrInvalidInput)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			require.Equal(t, tc.param, inputErr.Param)
		})
	}
}

func TestParseSortKey(t *testing.T) {
	require.Equal(t, SortBooking, ParseSortKey("booking"))
	require.Equal(t, SortPriceDesc, ParseSortKey("price-desc"))
	require.Equal(t, SortNew, ParseSortKey("prcie-des"))
	require.Equal(t, SortNew, ParseSortKey(""))
}

func TestSortKeyRules(t *testing.T) {
	require.Equal(t, "created_at desc", SortNew.Rule().String())
	require.Equal(t, "order_count desc", SortBooking.Rule().String())
	require.Equal(t, "price asc", SortPriceInc.Rule().String())
	require.Equal(t, "price desc", SortPriceDesc.Rule().String())
	require.Equal(t, "created_at desc", SortKey("unknown").Rule().String())
}
