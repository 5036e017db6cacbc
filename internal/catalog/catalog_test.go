package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agri-map/internal/country"
	"agri-map/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T) *Dataset {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)
	ds, err := ParseDataset(b)
	require.NoError(t, err)
	return ds
}

func TestParseDatasetKeepsDeclaredOrder(t *testing.T) {
	ds := loadTestdata(t)
	require.Len(t, ds.Sectors, 3)
	assert.Equal(t, "livestock", ds.Sectors[0].Key)
	assert.Equal(t, "crops_production", ds.Sectors[1].Key)
	assert.Equal(t, "orchards", ds.Sectors[2].Key)
	assert.Equal(t, "7", ds.Sectors[0].Regions[0].ID)
	assert.Equal(t, "cv", ds.Sectors[1].Regions[0].ID)
	assert.Empty(t, ds.Sectors[1].Regions[1].ID)
}

func TestParseDatasetDuplicateKeyKeepsFirstPosition(t *testing.T) {
	raw := `{"sectors":{"a":{"regions":[]},"b":{"regions":[]},"a":{"name":"second","regions":[]}}}`
	ds, err := ParseDataset([]byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Sectors, 2)
	assert.Equal(t, "a", ds.Sectors[0].Key)
	assert.Equal(t, "second", ds.Sectors[0].Name)
	assert.Equal(t, "b", ds.Sectors[1].Key)
}

func TestParseDatasetErrors(t *testing.T) {
	_, err := ParseDataset([]byte(`{"sectors":[1,2]}`))
	assert.Error(t, err)
	_, err = ParseDataset([]byte(`not json`))
	assert.Error(t, err)

	ds, err := ParseDataset([]byte(`{"sectors":null}`))
	require.NoError(t, err)
	assert.Empty(t, ds.Sectors)
}

func TestDatasetMarshalPreservesOrder(t *testing.T) {
	ds := loadTestdata(t)
	b, err := json.Marshal(ds)
	require.NoError(t, err)
	back, err := ParseDataset(b)
	require.NoError(t, err)
	var keys []string
	for _, s := range back.Sectors {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"livestock", "crops_production", "orchards"}, keys)
}

func TestGeoJSONIsConvertedToLatLng(t *testing.T) {
	ds := loadTestdata(t)
	ring, err := ds.Sectors[0].Regions[0].Ring()
	require.NoError(t, err)
	require.Len(t, ring, 5)
	assert.Equal(t, geo.Point{Lat: -32.0, Lng: -64.0}, ring[0])
	assert.True(t, geo.PointInPolygon(geo.Point{Lat: -35, Lng: -61}, ring))

	multi, err := ds.Sectors[2].Regions[0].Ring()
	require.NoError(t, err)
	assert.Equal(t, []geo.Point{{Lat: 10, Lng: 10}, {Lat: 10, Lng: 11}, {Lat: 11, Lng: 10}}, multi)

	_, err = Geometry{Type: "LineString", Coordinates: json.RawMessage(`[]`)}.OuterRing()
	assert.Error(t, err)
}

func TestBuildAnnotatesRegions(t *testing.T) {
	cat := Build(loadTestdata(t), DefaultSectors, country.Default())
	assert.Equal(t, []string{"livestock", "crops_production", "orchards"}, cat.Keys())
	assert.Equal(t, 4, cat.RegionCount())

	live, ok := cat.Sector("livestock")
	require.True(t, ok)
	assert.Equal(t, "Livestock Density", live.Config.DisplayName)
	assert.Equal(t, "#FF9800", live.Config.BaseColor)
	assert.Len(t, live.Config.ColorRamp, 5)
	assert.Equal(t, "livestock", live.Regions[0].SectorKey)
	assert.Equal(t, "Argentina", live.Regions[0].Country, "country inferred from centroid")

	crops, _ := cat.Sector("crops_production")
	assert.Equal(t, "Crops", crops.Config.DisplayName)
	assert.Equal(t, "#4CAF50", crops.Config.BaseColor)
	assert.Equal(t, "United States", crops.Regions[0].Country)
	assert.Equal(t, "France", crops.Regions[1].Country)
	assert.Equal(t, 1, crops.Regions[1].Index)

	orch, _ := cat.Sector("orchards")
	assert.Equal(t, "orchards", orch.Config.DisplayName)
	assert.Equal(t, DefaultColor, orch.Config.BaseColor)
	assert.Empty(t, orch.Config.ColorRamp)

	_, ok = cat.Sector("missing")
	assert.False(t, ok)
}

func TestBuildDoesNotShareRampWithTable(t *testing.T) {
	cat := Build(Fallback(), DefaultSectors, nil)
	s, _ := cat.Sector("crops_production")
	s.Config.ColorRamp[0] = "#000000"
	assert.Equal(t, "#E8F5E9", DefaultSectors[0].ColorRamp[0])
}

func TestPropertiesNumber(t *testing.T) {
	p := Properties{"a": 0.5, "b": "12.5", "c": "n/a", "d": 3, "e": nil, "f": true}
	v, ok := p.Number("a")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
	v, ok = p.Number("b")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
	_, ok = p.Number("c")
	assert.False(t, ok)
	v, ok = p.Number("d")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	for _, k := range []string{"e", "f", "missing"} {
		_, ok = p.Number(k)
		assert.False(t, ok, k)
	}
	var nilProps Properties
	_, ok = nilProps.Number("a")
	assert.False(t, ok)
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) Fetch(context.Context) (*Dataset, error) {
	return nil, errors.New("connection refused")
}

func TestLoadFallsBackOnFailure(t *testing.T) {
	r := Load(context.Background(), failingSource{}, DefaultSectors, country.Default())
	assert.True(t, r.Degraded)
	assert.ErrorIs(t, r.Err, ErrDatasetUnavailable)
	assert.Equal(t, "fallback", r.Source)
	assert.GreaterOrEqual(t, len(r.Catalog.Sectors()), 1)
	assert.GreaterOrEqual(t, r.Catalog.RegionCount(), 1)

	r = Load(context.Background(), &StaticSource{Data: &Dataset{}}, DefaultSectors, nil)
	assert.True(t, r.Degraded)

	r = Load(context.Background(), nil, DefaultSectors, nil)
	assert.True(t, r.Degraded)
}

func TestLoadStaticSource(t *testing.T) {
	r := Load(context.Background(), &StaticSource{Label: "fixture", Data: loadTestdata(t)}, DefaultSectors, nil)
	assert.False(t, r.Degraded)
	assert.NoError(t, r.Err)
	assert.Equal(t, "fixture", r.Source)
	assert.Equal(t, 4, r.Catalog.RegionCount())
}

func TestHTTPSource(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	ds, err := (&HTTPSource{URL: srv.URL + "/data"}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Sectors, 3)

	_, err = (&HTTPSource{URL: srv.URL + "/down"}).Fetch(context.Background())
	assert.Error(t, err)

	_, err = (&HTTPSource{}).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	ds, err := (&FileSource{Path: filepath.Join("testdata", "dataset.json")}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Sectors, 3)
	_, err = (&FileSource{Path: filepath.Join("testdata", "nope.json")}).Fetch(context.Background())
	assert.Error(t, err)
}

func TestHolderRefreshKeepsHealthyCatalog(t *testing.T) {
	good := Load(context.Background(), &StaticSource{Data: loadTestdata(t)}, DefaultSectors, nil)
	h := NewHolder(good)
	assert.False(t, h.Degraded())

	_, applied := h.Refresh(context.Background(), func(ctx context.Context) Result {
		return Load(ctx, failingSource{}, DefaultSectors, nil)
	})
	assert.False(t, applied)
	assert.False(t, h.Degraded())
	assert.Equal(t, 4, h.Catalog().RegionCount())

	h.Set(Load(context.Background(), nil, DefaultSectors, nil))
	assert.True(t, h.Degraded())
	r, applied := h.Refresh(context.Background(), func(ctx context.Context) Result { return good })
	assert.True(t, applied)
	assert.False(t, r.Degraded)
	assert.False(t, h.Degraded())
}

func TestHolderZeroValue(t *testing.T) {
	var h Holder
	assert.True(t, h.Degraded())
	assert.Empty(t, h.Catalog().Sectors())
}

func TestHolderStartRefresh(t *testing.T) {
	h := NewHolder(Load(context.Background(), nil, DefaultSectors, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	data := loadTestdata(t)
	h.StartRefresh(ctx, 10*time.Millisecond, func(ctx context.Context) Result {
		return Load(ctx, &StaticSource{Data: data}, DefaultSectors, nil)
	})
	assert.Eventually(t, func() bool { return !h.Degraded() }, time.Second, 5*time.Millisecond)
}

func TestBuildAssignsUniqueRegionKeys(t *testing.T) {
	sq := [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	ds := &Dataset{Sectors: []SectorData{
		{Key: "crops", Regions: []RegionData{
			{Name: "Field", Polygon: sq},
			{Name: "Field", Polygon: sq},
			{Name: "Field", Polygon: sq},
		}},
	}}
	cat := Build(ds, nil, nil)
	s, ok := cat.Sector("crops")
	require.True(t, ok)
	keys := []string{s.Regions[0].Key, s.Regions[1].Key, s.Regions[2].Key}
	assert.Equal(t, []string{"crops-Field", "crops-Field-1", "crops-Field-2"}, keys)

	for i, k := range keys {
		sec, r, ok := cat.RegionByKey(k)
		require.True(t, ok, k)
		assert.Equal(t, "crops", sec.Config.Key)
		assert.Equal(t, i, r.Index)
	}
	_, _, ok = cat.RegionByKey("crops-nope")
	assert.False(t, ok)
	var nilCat *Catalog
	_, _, ok = nilCat.RegionByKey("crops-Field")
	assert.False(t, ok)
}
