package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/model"
	"github.com/airwave-radio/airwave/internal/secrets"
	"github.com/airwave-radio/airwave/internal/transfer"
)

// fakeStore backs the exporter with in-memory catalog records. Unused Store
// methods come from the embedded nil interface and panic if reached.
type fakeStore struct {
	db.Store
	genres   []model.Genre
	stations []model.Station
	apps     []model.PlayerApp
	profiles map[string]model.ExportProfile

	savedState json.RawMessage
}

func (f *fakeStore) ListGenres() ([]model.Genre, error)         { return f.genres, nil }
func (f *fakeStore) ListStations() ([]model.Station, error)     { return f.stations, nil }
func (f *fakeStore) ListPlayerApps() ([]model.PlayerApp, error) { return f.apps, nil }

func (f *fakeStore) ListExportProfiles() ([]model.ExportProfile, error) {
	out := make([]model.ExportProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetExportProfileByID(id string) (model.ExportProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return model.ExportProfile{}, fmt.Errorf("profile %s not found", id)
	}
	return p, nil
}

func (f *fakeStore) SaveExportState(profileID string, state json.RawMessage) error {
	f.savedState = state
	p := f.profiles[profileID]
	p.ExportState = state
	f.profiles[profileID] = p
	return nil
}

type recordingExecutor struct {
	calls [][]string
	fail  bool
	err   error
}

func (r *recordingExecutor) Run(_ context.Context, _ string, args []string) (string, error) {
	r.calls = append(r.calls, args)
	if r.err != nil {
		return "", r.err
	}
	if r.fail {
		return "curl: (67) access denied", errors.New("exit status 67")
	}
	return "", nil
}

var testKey = [32]byte{1, 2, 3, 4}

func testExporter(t *testing.T, store db.Store, exec transfer.Executor) *Exporter {
	t.Helper()
	agent := transfer.New("curl", transfer.WithExecutor(exec))
	return NewExporter(store, secrets.NewBox(testKey), agent, nil, t.TempDir())
}

func testCatalog(t *testing.T, app *model.PlayerApp) *fakeStore {
	t.Helper()
	profile := model.ExportProfile{ID: "p1", Name: "Morning Mix", GenreIDs: []string{"g1"}}
	if app != nil {
		profile.PlayerAppID = &app.ID
	}
	store := &fakeStore{
		genres: []model.Genre{{ID: "g1", Name: "Jazz"}},
		stations: []model.Station{
			{ID: "s1", Name: "Alpha FM", GenreID: strptr("g1"), Active: true},
			{ID: "s2", Name: "Beta FM", GenreID: strptr("g1"), Active: true},
		},
		profiles: map[string]model.ExportProfile{"p1": profile},
	}
	if app != nil {
		store.apps = []model.PlayerApp{*app}
	}
	return store
}

func TestRunNoStationsWritesNothing(t *testing.T) {
	store := &fakeStore{
		profiles: map[string]model.ExportProfile{
			"p1": {ID: "p1", Name: "Empty", GenreIDs: []string{"missing"}},
		},
	}
	exec := &recordingExecutor{}
	exporter := testExporter(t, store, exec)
	outDir := exporter.outDir

	_, err := exporter.Run(context.Background(), "p1", Options{Archive: true, Upload: true})
	require.ErrorIs(t, err, ErrNoStations)

	files, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, files, "no files may exist after a gated export")
	assert.Empty(t, exec.calls)
}

func TestRunGenericPlatformWithoutApp(t *testing.T) {
	store := testCatalog(t, nil)
	exporter := testExporter(t, store, &recordingExecutor{})

	result, err := exporter.Run(context.Background(), "p1", Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "generic", result.Files[0].Platform)
	assert.Equal(t, "morning-mix-generic.json", result.Files[0].Name)
	assert.Equal(t, 2, result.Stations)
	assert.Empty(t, result.ArchiveName)

	var payload Payload
	body, err := os.ReadFile(result.Files[0].Path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Len(t, payload.Stations, 2)
	assert.Nil(t, payload.App)
}

func TestRunWritesOneFilePerPlatform(t *testing.T) {
	app := &model.PlayerApp{
		ID:               "a1",
		Name:             "Jazz Player",
		Platforms:        []string{"ios", "android", "web"},
		AdsEnabled:       true,
		AdNetworkCode:    "12345",
		PlacementPreroll: "/12345/radio/audio_preroll",
	}
	store := testCatalog(t, app)
	exporter := testExporter(t, store, &recordingExecutor{})

	result, err := exporter.Run(context.Background(), "p1", Options{Archive: true})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.Equal(t, "morning-mix-ios.json", result.Files[0].Name)
	assert.Equal(t, "morning-mix-android.json", result.Files[1].Name)
	assert.Equal(t, "morning-mix-web.json", result.Files[2].Name)

	assert.Equal(t, "morning-mix.zip", result.ArchiveName)
	_, err = os.Stat(result.ArchivePath)
	require.NoError(t, err)

	// the initial export persists the canonical state
	require.NotEmpty(t, store.savedState)
	var state ExportState
	require.NoError(t, json.Unmarshal(store.savedState, &state))
	require.NotNil(t, state.App)
	assert.Equal(t, "ios", state.App.Platform)
	assert.NotEmpty(t, state.Ads)

	// web gets no ads block, ios does
	var iosPayload, webPayload Payload
	body, _ := os.ReadFile(result.Files[0].Path)
	require.NoError(t, json.Unmarshal(body, &iosPayload))
	body, _ = os.ReadFile(result.Files[2].Path)
	require.NoError(t, json.Unmarshal(body, &webPayload))
	assert.NotNil(t, iosPayload.Ads)
	assert.Nil(t, webPayload.Ads)
}

func TestRunUploadFailureDegrades(t *testing.T) {
	box := secrets.NewBox(testKey)
	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)

	app := &model.PlayerApp{
		ID:               "a1",
		Name:             "Jazz Player",
		Platforms:        []string{"android"},
		TransferServer:   "ftp.example.com/incoming",
		TransferUsername: "deploy",
		TransferSecret:   sealed,
	}
	store := testCatalog(t, app)
	exec := &recordingExecutor{fail: true}
	exporter := testExporter(t, store, exec)

	result, err := exporter.Run(context.Background(), "p1", Options{Upload: true})
	require.NoError(t, err, "a transfer failure must not fail the export")
	assert.NotEmpty(t, result.UploadError)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].Uploaded)
	// the file itself stays on disk
	_, statErr := os.Stat(result.Files[0].Path)
	assert.NoError(t, statErr)
}

func TestRunUploadMarksDeliveredFiles(t *testing.T) {
	box := secrets.NewBox(testKey)
	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)

	app := &model.PlayerApp{
		ID:               "a1",
		Name:             "Jazz Player",
		Platforms:        []string{"ios", "android"},
		TransferServer:   "ftp.example.com",
		TransferUsername: "deploy",
		TransferSecret:   sealed,
	}
	store := testCatalog(t, app)
	exec := &recordingExecutor{}
	exporter := testExporter(t, store, exec)

	result, err := exporter.Run(context.Background(), "p1", Options{Upload: true})
	require.NoError(t, err)
	assert.Empty(t, result.UploadError)
	require.Len(t, result.Uploaded, 2)
	for _, f := range result.Files {
		assert.True(t, f.Uploaded, f.Name)
	}
	assert.Len(t, exec.calls, 2)
}

func TestRunKeepsExistingExportState(t *testing.T) {
	app := &model.PlayerApp{
		ID:        "a1",
		Name:      "Jazz Player",
		Platforms: []string{"android"},
	}
	store := testCatalog(t, app)
	existing := json.RawMessage(`{"app":{"id":"jazz-player","platform":"ios","version":4}}`)
	p := store.profiles["p1"]
	p.ExportState = existing
	store.profiles["p1"] = p

	exporter := testExporter(t, store, &recordingExecutor{})
	result, err := exporter.Run(context.Background(), "p1", Options{})
	require.NoError(t, err)

	// nothing was re-persisted
	assert.Empty(t, store.savedState)

	var payload Payload
	body, _ := os.ReadFile(filepath.Join(exporter.outDir, result.Files[0].Name))
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotNil(t, payload.App)
	assert.Equal(t, 4, payload.App.Version)
	assert.Equal(t, "android", payload.App.Platform)
}
