package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabels(t *testing.T) {
	got := NormalizeLabels([]string{"Bebop", "bebop", " Swing ", "", "BEBOP", "cool"})
	assert.Equal(t, []string{"Bebop", "Swing", "cool"}, got)
}

func TestIntersectLabels(t *testing.T) {
	got := IntersectLabels([]string{"Bebop", "Swing", "Cool"}, []string{"swing", "bebop"})
	assert.Equal(t, []string{"Bebop", "Swing"}, got)
}

func TestPruneSubGenresStations(t *testing.T) {
	jazz := Genre{ID: "g1", Name: "Jazz", SubGenres: []string{"bebop"}}
	rock := Genre{ID: "g2", Name: "Rock", SubGenres: []string{"metal"}}
	g1 := "g1"
	g2 := "g2"

	stations := []Station{
		{ID: "s1", GenreID: &g1, SubGenres: []string{"bebop", "swing"}},
		{ID: "s2", GenreID: &g1, SubGenres: []string{"bebop"}},
		{ID: "s3", GenreID: &g2, SubGenres: []string{"metal"}},
		{ID: "s4"},
	}

	res := PruneSubGenres(jazz, []Genre{jazz, rock}, stations, nil)
	// only the station that lost a label appears
	require.Len(t, res.Stations, 1)
	assert.Equal(t, []string{"bebop"}, res.Stations["s1"])
}

func TestPruneSubGenresProfilesUseUnionAcrossGenres(t *testing.T) {
	// swing was removed from jazz but metal survives on rock, so a profile
	// filtering on both loses only swing
	jazz := Genre{ID: "g1", Name: "Jazz", SubGenres: []string{"bebop"}}
	rock := Genre{ID: "g2", Name: "Rock", SubGenres: []string{"metal"}}

	profiles := []ExportProfile{
		{ID: "p1", SubGenres: []string{"swing", "metal"}},
		{ID: "p2", SubGenres: []string{"metal"}},
	}

	res := PruneSubGenres(jazz, []Genre{jazz, rock}, nil, profiles)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, []string{"metal"}, res.Profiles["p1"])
}

func TestPruneSubGenresUsesEditedLabels(t *testing.T) {
	// the edited genre's new label set must win over its stale stored copy
	stale := Genre{ID: "g1", Name: "Jazz", SubGenres: []string{"bebop", "swing"}}
	edited := Genre{ID: "g1", Name: "Jazz", SubGenres: []string{"swing"}}

	profiles := []ExportProfile{{ID: "p1", SubGenres: []string{"bebop"}}}
	res := PruneSubGenres(edited, []Genre{stale}, nil, profiles)
	require.Len(t, res.Profiles, 1)
	assert.Empty(t, res.Profiles["p1"])
}

func TestNormalizePlatforms(t *testing.T) {
	assert.Equal(t, []string{"ios", "android"}, NormalizePlatforms([]string{"IOS", " android ", "ios"}))
	assert.Equal(t, []string{"web"}, NormalizePlatforms(nil))
	assert.Equal(t, []string{"web"}, NormalizePlatforms([]string{" ", ""}))
}

func TestPrimaryPlatform(t *testing.T) {
	assert.Equal(t, "home", PlayerApp{Platforms: []string{"HOME", "web"}}.PrimaryPlatform())
	assert.Equal(t, "web", PlayerApp{}.PrimaryPlatform())
}

func TestNormalizeAdType(t *testing.T) {
	assert.Equal(t, AdTypeAudio, NormalizeAdType("audio"))
	assert.Equal(t, AdTypeVideo, NormalizeAdType("video"))
	assert.Equal(t, AdTypeNone, NormalizeAdType("no"))
	assert.Equal(t, AdTypeNone, NormalizeAdType("banner"))
	assert.Equal(t, AdTypeNone, NormalizeAdType(""))
}
