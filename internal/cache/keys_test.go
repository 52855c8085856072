package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingletonKeys(t *testing.T) {
	require.Equal(t, "area_info", AreasKey())
	require.Equal(t, "home_page_data", HomeFeedKey())
	require.Equal(t, "house_info::42", HouseDetailKey(42))
}

func TestSearchBucketKey(t *testing.T) {
	aid := uint(3)

	require.Equal(t, "houses::3::2024-03-10::2024-03-12::new", SearchBucketKey(&aid, "2024-03-10", "2024-03-12", "new"))
	require.Equal(t, "houses::::::::", SearchBucketKey(nil, "", "", ""))
}

func TestSearchBucketKeyKeepsRawDates(t *testing.T) {
	aid := uint(1)

	padded := SearchBucketKey(&aid, "2024-3-1", "", "new")
	canonical := SearchBucketKey(&aid, "2024-03-01", "", "new")
	require.NotEqual(t, padded, canonical)
}

func TestSearchBucketKeyEscapesSeparators(t *testing.T) {
	shifted := SearchBucketKey(nil, "a::b", "", "new")
	split := SearchBucketKey(nil, "a", "b", "new")
	require.NotEqual(t, shifted, split)
	require.Equal(t, "houses::::a%3A%3Ab::::new", shifted)
}

func TestPageField(t *testing.T) {
	require.Equal(t, "1", PageField(1))
	require.Equal(t, "12", PageField(12))
}
