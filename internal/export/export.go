package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/airwave-radio/airwave/internal/archive"
	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/events"
	"github.com/airwave-radio/airwave/internal/model"
	"github.com/airwave-radio/airwave/internal/secrets"
	"github.com/airwave-radio/airwave/internal/transfer"
)

// ErrNoStations gates an export before any file is written: a profile that
// resolves to zero stations is a caller-visible precondition failure.
var ErrNoStations = errors.New("export profile matches no stations")

// genericPlatform is used when a profile has no player app attached.
const genericPlatform = "generic"

// ExportedFile records one written per-platform document.
type ExportedFile struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Uploaded bool   `json:"uploaded"`
}

// Result is the outcome of one export run. Local packaging success and
// remote delivery success are independent: UploadError reports a transfer
// failure without failing the export.
type Result struct {
	ProfileID   string         `json:"profile_id"`
	AppID       string         `json:"app_id,omitempty"`
	Stations    int            `json:"stations"`
	Files       []ExportedFile `json:"files"`
	ArchiveName string         `json:"archive_name,omitempty"`
	ArchivePath string         `json:"archive_path,omitempty"`
	Uploaded    []string       `json:"uploaded,omitempty"`
	UploadError string         `json:"upload_error,omitempty"`
	ExportedAt  time.Time      `json:"exported_at"`
}

// Options selects the optional pipeline tails.
type Options struct {
	Archive bool
	Upload  bool
}

// Exporter runs the pipeline for one profile at a time. Platforms are
// processed sequentially in the app's declared order.
type Exporter struct {
	store  db.Store
	box    *secrets.Box
	agent  *transfer.Agent
	pub    *events.Publisher
	outDir string
	now    func() time.Time
}

// NewExporter wires the pipeline. pub may be nil (no event stream).
func NewExporter(store db.Store, box *secrets.Box, agent *transfer.Agent, pub *events.Publisher, outDir string) *Exporter {
	return &Exporter{
		store:  store,
		box:    box,
		agent:  agent,
		pub:    pub,
		outDir: outDir,
		now:    time.Now,
	}
}

// Run exports one profile: select stations, build one document per target
// platform, write the files, then optionally bundle them into a ZIP archive
// and deliver them to the app's transfer endpoint.
func (e *Exporter) Run(ctx context.Context, profileID string, opts Options) (*Result, error) {
	profile, err := e.store.GetExportProfileByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	snap, err := LoadSnapshot(e.store)
	if err != nil {
		return nil, err
	}

	stations := snap.SelectStations(profile)
	if len(stations) == 0 {
		return nil, ErrNoStations
	}

	var app *model.PlayerApp
	if profile.PlayerAppID != nil {
		if a, ok := snap.Apps[*profile.PlayerAppID]; ok {
			app = &a
		}
	}

	state, err := e.ensureExportState(profile, app, stations, snap)
	if err != nil {
		return nil, err
	}

	platforms := []string{genericPlatform}
	if app != nil {
		platforms = model.NormalizePlatforms(app.Platforms)
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	slug := Slugify(profile.Name, profile.ID)
	now := e.now()
	result := &Result{
		ProfileID:  profile.ID,
		Stations:   len(stations),
		ExportedAt: now,
	}
	if app != nil {
		result.AppID = app.ID
	}

	var entries []archive.Entry
	for _, platform := range platforms {
		payload := snap.BuildPlatformPayload(platform, app, stations, state)
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", platform, err)
		}

		name := fmt.Sprintf("%s-%s.json", slug, platform)
		path := filepath.Join(e.outDir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}

		result.Files = append(result.Files, ExportedFile{Platform: platform, Name: name, Path: path})
		entries = append(entries, archive.Entry{Name: name, Body: body, Modified: now})
		log.Debug().Str("profile_id", profile.ID).Str("platform", platform).
			Int("bytes", len(body)).Msg("wrote export document")
	}

	if opts.Archive {
		result.ArchiveName = slug + ".zip"
		result.ArchivePath = filepath.Join(e.outDir, result.ArchiveName)
		if err := archive.WriteFile(result.ArchivePath, entries); err != nil {
			return nil, fmt.Errorf("package archive: %w", err)
		}
	}

	if opts.Upload && app != nil {
		e.upload(ctx, app, result)
	}

	log.Info().Str("profile_id", profile.ID).Int("stations", len(stations)).
		Int("files", len(result.Files)).Int("uploaded", len(result.Uploaded)).
		Msg("export complete")

	e.pub.PublishExport(events.ExportEvent{
		ProfileID: profile.ID,
		AppID:     result.AppID,
		Files:     fileNames(result.Files),
		Uploaded:  result.Uploaded,
		Timestamp: now,
	})
	return result, nil
}

// ensureExportState returns the profile's canonical export state, building
// and persisting it on the first export of a profile with an app attached.
func (e *Exporter) ensureExportState(profile model.ExportProfile, app *model.PlayerApp, stations []ExportStation, snap *Snapshot) (ExportState, error) {
	var state ExportState
	if len(profile.ExportState) > 0 {
		if err := json.Unmarshal(profile.ExportState, &state); err != nil {
			log.Warn().Err(err).Str("profile_id", profile.ID).Msg("discarding unreadable export state")
			state = ExportState{}
		}
	}
	if state.App != nil || app == nil {
		return state, nil
	}

	_, state = snap.BuildInitialPayload(app, stations)
	raw, err := json.Marshal(state)
	if err != nil {
		return state, fmt.Errorf("marshal export state: %w", err)
	}
	if err := e.store.SaveExportState(profile.ID, raw); err != nil {
		return state, fmt.Errorf("save export state: %w", err)
	}
	return state, nil
}

// upload delivers the written files. A transfer failure degrades the result
// to "files written, not uploaded" instead of failing the export.
func (e *Exporter) upload(ctx context.Context, app *model.PlayerApp, result *Result) {
	password, err := e.box.Open(app.TransferSecret)
	if err != nil {
		result.UploadError = fmt.Sprintf("unseal transfer secret: %v", err)
		log.Error().Err(err).Str("app_id", app.ID).Msg("files written, not uploaded")
		return
	}

	cfg := transfer.Config{
		Address:   app.TransferServer,
		Username:  app.TransferUsername,
		Password:  password,
		Protocol:  app.TransferProtocol,
		TimeoutMS: app.TransferTimeoutMS,
	}
	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}

	uploaded, err := e.agent.Upload(ctx, cfg, paths)
	result.Uploaded = uploaded
	for i := range result.Files {
		for _, name := range uploaded {
			if result.Files[i].Name == name {
				result.Files[i].Uploaded = true
			}
		}
	}
	if err != nil {
		result.UploadError = err.Error()
		log.Error().Err(err).Str("app_id", app.ID).
			Int("uploaded", len(uploaded)).Int("total", len(result.Files)).
			Msg("files written, not uploaded")
	}
}

func fileNames(files []ExportedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}
