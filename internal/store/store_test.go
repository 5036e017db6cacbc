package store

import (
	"context"
	"errors"
	"testing"

	"agri-map/internal/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return AttachDB(db), mock
}

func TestFetchRebuildsOrderedDataset(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT key, name, icon, color FROM agri_sectors ORDER BY ord").
		WillReturnRows(sqlmock.NewRows([]string{"key", "name", "icon", "color"}).
			AddRow("livestock", "Livestock", "", "#FF9800").
			AddRow("crops_production", "Crops", "", ""))
	mock.ExpectQuery("SELECT sector_key, region_id, name, country, polygon, properties FROM agri_regions ORDER BY ord").
		WillReturnRows(sqlmock.NewRows([]string{"sector_key", "region_id", "name", "country", "polygon", "properties"}).
			AddRow("crops_production", "a", "A", "", []byte(`[[10,10],[10,12],[12,12]]`), []byte(`{"intensity":0.5}`)).
			AddRow("livestock", "", "Pampas", "Argentina", []byte(`[[-32,-64],[-32,-58],[-38,-58]]`), []byte(`{}`)).
			AddRow("crops_production", "b", "B", "", []byte(`[]`), []byte(`{}`)).
			AddRow("ghost", "x", "", "", []byte(`[]`), []byte(`{}`)))

	ds, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Sectors, 2)
	assert.Equal(t, "livestock", ds.Sectors[0].Key)
	assert.Equal(t, "crops_production", ds.Sectors[1].Key)
	require.Len(t, ds.Sectors[1].Regions, 2)
	assert.Equal(t, "a", ds.Sectors[1].Regions[0].ID)
	assert.Equal(t, "b", ds.Sectors[1].Regions[1].ID)
	assert.Equal(t, []float64{10, 12}, ds.Sectors[1].Regions[0].Polygon[1])
	assert.Equal(t, 0.5, ds.Sectors[1].Regions[0].Properties["intensity"])
	assert.Equal(t, "Pampas", ds.Sectors[0].Regions[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAsCatalogSource(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("FROM agri_sectors").WillReturnError(errors.New("db down"))

	var src catalog.Source = s
	assert.Equal(t, "postgres", src.Name())
	r := catalog.Load(context.Background(), src, catalog.DefaultSectors, nil)
	assert.True(t, r.Degraded)
	assert.ErrorIs(t, r.Err, catalog.ErrDatasetUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceDataset(t *testing.T) {
	s, mock := newMock(t)
	ds, err := catalog.ParseDataset([]byte(`{"sectors":{
	  "crops_production":{"name":"Crops","regions":[
	    {"id":"cv","polygon":[[1,2],[3,4],[5,6]]},
	    {"name":"Geo","geometry":{"type":"Polygon","coordinates":[[[2,1],[4,3],[6,5]]]}}
	  ]},
	  "livestock":{"name":"Livestock","regions":[]}
	}}`))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM agri_regions").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM agri_sectors").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO agri_sectors").WithArgs("crops_production", "Crops", "", "", 0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO agri_regions").
		WithArgs("crops_production", "cv", "", "", `[[1,2],[3,4],[5,6]]`, `{}`, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// GeoJSON 转为规范坐标后写入
	mock.ExpectExec("INSERT INTO agri_regions").
		WithArgs("crops_production", "", "Geo", "", `[[1,2],[3,4],[5,6]]`, `{}`, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO agri_sectors").WithArgs("livestock", "Livestock", "", "", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ns, nr, err := s.ReplaceDataset(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 2, ns)
	assert.Equal(t, 2, nr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceDatasetRollsBack(t *testing.T) {
	s, mock := newMock(t)
	ds := catalog.Fallback()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM agri_regions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM agri_sectors").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO agri_sectors").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	_, _, err := s.ReplaceDataset(context.Background(), ds)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordClick(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO agri_click_stats").WithArgs("livestock", "France").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.RecordClick(context.Background(), "livestock", "France"))

	mock.ExpectExec("INSERT INTO agri_click_stats").WillReturnError(errors.New("down"))
	assert.Error(t, s.RecordClick(context.Background(), "livestock", "France"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopClicks(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("FROM agri_click_stats").WithArgs(7, 20).
		WillReturnRows(sqlmock.NewRows([]string{"sector_key", "country", "total"}).
			AddRow("crops_production", "India", int64(12)).
			AddRow("livestock", "Argentina", int64(3)))
	out, err := s.TopClicks(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, ClickStat{Sector: "crops_production", Country: "India", Clicks: 12}, out[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
