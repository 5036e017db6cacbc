package selection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"agri-map/internal/catalog"
	"agri-map/internal/country"
	"agri-map/internal/detail"
	"agri-map/internal/style"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `{"sectors":{
  "crops_production":{"name":"Crops","regions":[
    {"id":"sq","name":"Square","country":"Testland","polygon":[[10,10],[10,12],[12,12],[12,10]],"properties":{"intensity":0.8}}
  ]},
  "livestock":{"name":"Livestock","regions":[
    {"name":"Beauce","polygon":[[47,1],[47,3],[49,3],[49,1]]}
  ]}
}}`

func testResolver(t *testing.T, details detail.Fetcher) *Resolver {
	t.Helper()
	ds, err := catalog.ParseDataset([]byte(testDataset))
	require.NoError(t, err)
	cat := catalog.Build(ds, catalog.DefaultSectors, country.Default())
	return NewResolver(StaticCatalog{Cat: cat}, nil, nil, details)
}

func TestTransitions(t *testing.T) {
	s := NewState()
	assert.Equal(t, catalog.AllSectors, s.ActiveSector)
	assert.Equal(t, style.ModeRegions, s.Mode)

	s.Selected = &Selected{Country: "France"}
	s2 := s.SetSector("livestock")
	assert.Equal(t, "livestock", s2.ActiveSector)
	assert.Nil(t, s2.Selected)
	assert.NotNil(t, s.Selected, "original state untouched")
	assert.Equal(t, catalog.AllSectors, s2.SetSector("").ActiveSector)

	s.Selected = &Selected{Country: "France"}
	s3 := s.SetMode(style.ModeHeatmap)
	assert.Equal(t, style.ModeHeatmap, s3.Mode)
	assert.Nil(t, s3.Selected)
	assert.Equal(t, style.ModeRegions, s3.SetMode("").Mode)

	assert.Nil(t, s.Deselect().Selected)
}

func TestMapClickInsideRegion(t *testing.T) {
	r := testResolver(t, nil)
	s, out := r.MapClick(NewState(), 11, 11, 1000)
	require.True(t, out.Handled)
	assert.Equal(t, "crops_production", out.Sector)
	assert.Equal(t, "crops_production-sq", out.RegionKey)
	assert.Equal(t, country.Default().Locate(11, 11), out.Country)
	require.NotNil(t, s.Selected)
	assert.Equal(t, "sq", s.Selected.Region.ID)
	assert.Equal(t, 11.0, s.Selected.Point.Lat)

	// 区域与配置结合得到的热力图样式
	sec, ok := r.catalog().Sector(out.Sector)
	require.True(t, ok)
	st := style.NewResolver(style.Fixed(0)).Resolve(*out.Region, style.ModeHeatmap, catalog.SectorConfig{BaseColor: sec.Config.BaseColor, ColorRamp: []string{"#fff", "#aaa", "#000"}})
	assert.Equal(t, "#aaa", st.FillColor)
	assert.Equal(t, 0.7, st.FillOpacity)
}

func TestMapClickNowhere(t *testing.T) {
	r := testResolver(t, nil)
	s, out := r.MapClick(NewState(), 0, 0, 1000)
	assert.True(t, out.Handled)
	assert.Equal(t, country.Unknown, out.Country)
	assert.Equal(t, catalog.DefaultSectorKey, out.Sector)
	assert.Nil(t, out.Region)
	assert.Nil(t, s.Selected.Region)

	_, out = r.MapClick(NewState().SetSector("livestock"), 0, 0, 1000)
	assert.Equal(t, "livestock", out.Sector)
}

func TestRegionClickSuppressesFollowingMapClick(t *testing.T) {
	r := testResolver(t, nil)
	s, out, err := r.RegionClick(NewState(), "livestock-Beauce", 5000)
	require.NoError(t, err)
	assert.Equal(t, "livestock", out.Sector)
	assert.Equal(t, "France", out.Country) // 由质心推断
	require.NotNil(t, s.Selected)
	assert.Equal(t, "livestock-Beauce", s.Selected.RegionKey)

	s2, out2 := r.MapClick(s, 11, 11, 5499)
	assert.False(t, out2.Handled)
	assert.Equal(t, s.Selected, s2.Selected)

	_, out3 := r.MapClick(s, 11, 11, 5501)
	assert.True(t, out3.Handled)
}

func TestRegionClickUnknownKey(t *testing.T) {
	r := testResolver(t, nil)
	s := NewState()
	s2, out, err := r.RegionClick(s, "nope-1", 100)
	assert.ErrorIs(t, err, ErrUnknownRegion)
	assert.False(t, out.Handled)
	assert.Nil(t, s2.Selected)
	assert.True(t, s2.Clicks.HasRegionClick)
}

func TestRegionClickUsesRegionCountry(t *testing.T) {
	r := testResolver(t, nil)
	_, out, err := r.RegionClick(NewState(), "crops_production-sq", 1)
	require.NoError(t, err)
	assert.Equal(t, "Testland", out.Country)
}

func TestFetchDetail(t *testing.T) {
	var gotCountry, gotSector string
	ok := detail.FetcherFunc(func(ctx context.Context, c, sec string) (*detail.Payload, error) {
		gotCountry, gotSector = c, sec
		return &detail.Payload{Success: true, Data: []json.RawMessage{json.RawMessage(`{}`)}}, nil
	})
	r := testResolver(t, ok)
	s, _, err := r.RegionClick(NewState(), "livestock-Beauce", 1)
	require.NoError(t, err)

	s2 := r.FetchDetail(context.Background(), s)
	assert.Equal(t, "France", gotCountry)
	assert.Equal(t, "livestock", gotSector)
	require.NotNil(t, s2.Selected.Detail)
	assert.True(t, s2.Selected.Detail.HasData())
	assert.Nil(t, s.Selected.Detail, "previous state untouched")
}

func TestFetchDetailFailureKeepsSelection(t *testing.T) {
	failing := detail.FetcherFunc(func(ctx context.Context, c, sec string) (*detail.Payload, error) {
		return nil, errors.New("boom")
	})
	r := testResolver(t, failing)
	s, _, err := r.RegionClick(NewState(), "crops_production-sq", 1)
	require.NoError(t, err)
	s2 := r.FetchDetail(context.Background(), s)
	require.NotNil(t, s2.Selected)
	assert.Equal(t, "Testland", s2.Selected.Country)
	assert.Equal(t, "crops_production-sq", s2.Selected.RegionKey)
	assert.Nil(t, s2.Selected.Detail)
}

func TestFetchDetailSkipsUnknownCountry(t *testing.T) {
	called := false
	f := detail.FetcherFunc(func(ctx context.Context, c, sec string) (*detail.Payload, error) {
		called = true
		return &detail.Payload{Success: true}, nil
	})
	r := testResolver(t, f)
	s, _ := r.MapClick(NewState(), 0, 0, 1)
	s = r.FetchDetail(context.Background(), s)
	assert.False(t, called)
	assert.Nil(t, s.Selected.Detail)

	// 无选择
	assert.Nil(t, r.FetchDetail(context.Background(), NewState()).Selected)
}
