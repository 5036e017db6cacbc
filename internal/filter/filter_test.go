package filter

import (
	"testing"

	"agri-map/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	sq := [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	ds := &catalog.Dataset{Sectors: []catalog.SectorData{
		{Key: "crops_production", Regions: []catalog.RegionData{
			{ID: "a", Name: "Alpha", Polygon: sq},
			{Name: "Beta", Polygon: sq},
			{Polygon: sq},
		}},
		{Key: "livestock", Color: "#123456", Regions: []catalog.RegionData{
			{ID: "x", Polygon: sq},
		}},
		{Key: "fertilizer", Regions: nil},
	}}
	return catalog.Build(ds, catalog.DefaultSectors, nil)
}

func TestGetFilteredRegionsAll(t *testing.T) {
	cat := testCatalog()
	out := GetFilteredRegions(catalog.AllSectors, cat)
	require.Len(t, out, cat.RegionCount())
	var keys []string
	for _, r := range out {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"crops_production-a", "crops_production-Beta", "crops_production-2", "livestock-x"}, keys)
	assert.Equal(t, "#123456", out[3].Sector.BaseColor)
	assert.Equal(t, "#4CAF50", out[0].Sector.BaseColor)
}

func TestGetFilteredRegionsSingleSector(t *testing.T) {
	cat := testCatalog()
	out := GetFilteredRegions("livestock", cat)
	require.Len(t, out, 1)
	assert.Equal(t, "livestock", out[0].Region.SectorKey)
	assert.Equal(t, "livestock", out[0].Sector.Key)

	assert.Len(t, GetFilteredRegions("crops_production", cat), 3)
}

func TestGetFilteredRegionsMissingOrEmptySector(t *testing.T) {
	cat := testCatalog()
	out := GetFilteredRegions("irrigation", cat)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Empty(t, GetFilteredRegions("fertilizer", cat))
	assert.Empty(t, GetFilteredRegions(catalog.AllSectors, nil))
}

func TestFindByKey(t *testing.T) {
	cat := testCatalog()
	r, ok := FindByKey(cat, "crops_production-Beta")
	require.True(t, ok)
	assert.Equal(t, "Beta", r.Region.Name)
	assert.Equal(t, "crops_production", r.Sector.Key)

	_, ok = FindByKey(cat, "livestock-nope")
	assert.False(t, ok)
}

func TestFindByKeySameNameRegions(t *testing.T) {
	sq := [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	far := [][]float64{{20, 20}, {20, 21}, {21, 21}, {21, 20}}
	ds := &catalog.Dataset{Sectors: []catalog.SectorData{
		{Key: "livestock", Regions: []catalog.RegionData{
			{Name: "Pasture", Country: "A", Polygon: sq},
			{Name: "Pasture", Country: "B", Polygon: far},
		}},
	}}
	cat := catalog.Build(ds, catalog.DefaultSectors, nil)

	out := GetFilteredRegions("livestock", cat)
	require.Len(t, out, 2)
	assert.Equal(t, "livestock-Pasture", out[0].Key)
	assert.Equal(t, "livestock-Pasture-1", out[1].Key)

	first, ok := FindByKey(cat, out[0].Key)
	require.True(t, ok)
	assert.Equal(t, "A", first.Region.Country)
	second, ok := FindByKey(cat, out[1].Key)
	require.True(t, ok)
	assert.Equal(t, "B", second.Region.Country)
}

func TestFindByKeyCrossSectorJoin(t *testing.T) {
	sq := [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	ds := &catalog.Dataset{Sectors: []catalog.SectorData{
		{Key: "a-b", Regions: []catalog.RegionData{{ID: "c", Name: "first", Polygon: sq}}},
		{Key: "a", Regions: []catalog.RegionData{{ID: "b-c", Name: "second", Polygon: sq}}},
	}}
	cat := catalog.Build(ds, nil, nil)

	out := GetFilteredRegions(catalog.AllSectors, cat)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].Key, out[1].Key)
	seen := map[string]bool{}
	for _, ar := range out {
		got, ok := FindByKey(cat, ar.Key)
		require.True(t, ok, ar.Key)
		assert.Equal(t, ar.Region.Name, got.Region.Name)
		assert.Equal(t, ar.Sector.Key, got.Sector.Key)
		seen[got.Region.Name] = true
	}
	assert.Len(t, seen, 2)
	assert.Equal(t, "a-b-c", out[0].Key)
	assert.Equal(t, "a-b-c-0", out[1].Key)
}
