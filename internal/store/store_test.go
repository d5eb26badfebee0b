package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aide/internal/intent"
	"aide/internal/mission"
)

func open(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "aide.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func proposed(id string, at time.Time) *mission.Mission {
	m := mission.New(id, "s1", mission.Fields{
		Intent:       intent.Extract,
		ActionObject: "titles",
		ActionTarget: "https://example.com",
		SourceURL:    "https://example.com",
		Constraints:  mission.Constraints{TopN: 5},
	})
	m.CreatedAt = at
	return m
}

func TestMissionRoundTrip(t *testing.T) {
	db := open(t)
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.SaveMission(proposed("m1", base)))
	require.NoError(t, db.SaveMission(proposed("m2", base.Add(time.Second))))

	got, err := db.LatestMission("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m2", got.ID)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, mission.StatusProposed, got.Status)
	assert.Equal(t, intent.Extract, got.Fields.Intent)
	assert.Equal(t, "titles", got.Fields.ActionObject)
	assert.Equal(t, 5, got.Fields.Constraints.TopN)

	n, err := db.MissionCount("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLatestMissionEmptySession(t *testing.T) {
	db := open(t)
	got, err := db.LatestMission("nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateMissionStatus(t *testing.T) {
	db := open(t)
	require.NoError(t, db.SaveMission(proposed("m1", time.Now().UTC())))

	require.NoError(t, db.UpdateMissionStatus("m1", mission.StatusApproved))
	got, err := db.LatestMission("s1")
	require.NoError(t, err)
	assert.Equal(t, mission.StatusApproved, got.Status)

	err = db.UpdateMissionStatus("ghost", mission.StatusApproved)
	assert.ErrorContains(t, err, "not found")
}

func TestArtifactRoundTrip(t *testing.T) {
	db := open(t)
	base := time.Now().UTC().Truncate(time.Second)

	first := &mission.Artifact{
		MissionID: "m1",
		Intent:    intent.Extract,
		SourceURL: "https://a.com",
		ItemCount: 1,
		Items:     []string{"one"},
		CreatedAt: base,
	}
	second := &mission.Artifact{
		MissionID: "m2",
		Intent:    intent.Extract,
		SourceURL: "https://b.com",
		ItemCount: 2,
		Items:     []string{"one", "two"},
		Summary:   "two things",
		CreatedAt: base.Add(time.Second),
	}
	require.NoError(t, db.SaveArtifact("s1", first))
	require.NoError(t, db.SaveArtifact("s1", second))

	got, err := db.LatestArtifact("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m2", got.MissionID)
	assert.Equal(t, []string{"one", "two"}, got.Items)
	assert.Equal(t, "two things", got.Summary)
}

func TestSaveArtifactIsIdempotentPerMission(t *testing.T) {
	db := open(t)
	art := &mission.Artifact{MissionID: "m1", Intent: intent.Extract, SourceURL: "https://a.com", ItemCount: 1, Items: []string{"one"}, CreatedAt: time.Now().UTC()}

	require.NoError(t, db.SaveArtifact("s1", art))
	art.ItemCount = 3
	art.Items = []string{"one", "two", "three"}
	require.NoError(t, db.SaveArtifact("s1", art))

	got, err := db.LatestArtifact("s1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ItemCount)
}

func TestSessionsAreSeparated(t *testing.T) {
	db := open(t)
	require.NoError(t, db.SaveMission(proposed("m1", time.Now().UTC())))

	n, err := db.MissionCount("other")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := db.LatestArtifact("other")
	require.NoError(t, err)
	assert.Nil(t, got)
}
