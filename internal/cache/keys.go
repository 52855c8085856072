package cache

import (
	"net/url"
	"strconv"
	"strings"
)

const keySeparator = "::"

// Key namespaces. Singleton keys carry no separator so they can never collide
// with a composite key.
const (
	areasKey       = "area_info"
	homeFeedKey    = "home_page_data"
	houseNamespace = "house_info"
	houseBucketNS  = "houses"
)

// AreasKey addresses the cached area list.
func AreasKey() string {
	return areasKey
}

// HomeFeedKey addresses the cached home page feed.
func HomeFeedKey() string {
	return homeFeedKey
}

// HouseDetailKey addresses the cached detail projection of one house.
func HouseDetailKey(houseID uint) string {
	return buildKey(houseNamespace, strconv.FormatUint(uint64(houseID), 10))
}

// SearchBucketKey addresses the bucket shared by every page of one search query.
// Date components are the raw request strings; an absent area is the empty string.
func SearchBucketKey(areaID *uint, startRaw, endRaw, sortKey string) string {
	area := ""
	if areaID != nil {
		area = strconv.FormatUint(uint64(*areaID), 10)
	}
	return buildKey(houseBucketNS, area, startRaw, endRaw, sortKey)
}

// PageField is the bucket field holding one search page.
func PageField(page int) string {
	return strconv.Itoa(page)
}

func buildKey(namespace string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, part := range parts {
		b.WriteString(keySeparator)
		b.WriteString(url.QueryEscape(part))
	}
	return b.String()
}
