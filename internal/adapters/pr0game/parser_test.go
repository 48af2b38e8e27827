package pr0game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

func loadFixture(t *testing.T, name string) *html.Node {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()
	doc, err := html.Parse(f)
	require.NoError(t, err)
	return doc
}

func TestParseNumber_GermanFormat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.530", 1530},
		{" 36.720 ", 36720},
		{"12,5", 12.5},
		{"1.234.567", 1234567},
		{"-12", -12},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResources_ReadsBarAndEnergy(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "buildings.html")

	// Act
	res, err := parseResources(doc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, game.Resources{Met: 1234, Kris: 567, Deut: 89, Energy: -12}, res)
}

func TestParseResources_MissingBarIsParseError(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "login.html")

	// Act
	_, err := parseResources(doc)

	// Assert
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "#current_metal", parseErr.Element)
}

func TestParseProduction_ReadsPerHourRow(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "resources.html")

	// Act
	prod, err := parseProduction(doc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, game.Production{Met: 1530, Kris: 765, Deut: 0}, prod)
}

func TestParseBuildingHeader(t *testing.T) {
	tests := []struct {
		header string
		name   string
		level  int
	}{
		{"Metallmine (Stufe 4)", "Metallmine", 4},
		{"Forschungslabor", "Forschungslabor", 0},
		{"Solarkraftwerk (Stufe 12)", "Solarkraftwerk", 12},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			name, level := parseBuildingHeader(tt.header)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestParseBuildingLevels_UnbuiltBuildingIsLevelZero(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "buildings.html")

	// Act
	levels, err := parseBuildingLevels(doc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, levels.Metallmine)
	assert.Equal(t, 2, levels.Kristallmine)
	assert.Equal(t, 7, levels.Solarkraftwerk)
	assert.Equal(t, 0, levels.Forschungslabor)
}

func TestParseQueue_ReadsEntriesAndRemainingTime(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "buildings.html")

	// Act
	state, err := parseQueue(doc)

	// Assert
	require.NoError(t, err)
	assert.True(t, state.active)
	assert.Equal(t, 125*time.Second, state.remaining)
	assert.Equal(t, []game.QueueEntry{
		{Position: 1, Name: "Kristallmine", Level: 3},
		{Position: 2, Name: "Metallmine", Level: 5},
	}, state.entries)
}

func TestParseQueue_NoBuildListMeansIdle(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "research.html")

	// Act
	state, err := parseQueue(doc)

	// Assert
	require.NoError(t, err)
	assert.False(t, state.active)
	assert.Zero(t, state.remaining)
	assert.Empty(t, state.entries)
}

func TestParseResearchLabBusy(t *testing.T) {
	assert.True(t, parseResearchLabBusy(loadFixture(t, "research_lab_busy.html")))
	assert.False(t, parseResearchLabBusy(loadFixture(t, "research.html")))
}

func TestFindBuildForm_CollectsInputs(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "buildings.html")

	// Act
	form, ok := findBuildForm(doc, "Kristallmine")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "game.php?page=buildings", form.action)
	assert.Equal(t, "insert", form.values.Get("cmd"))
	assert.Equal(t, "2", form.values.Get("building"))
}

func TestFindBuildForm_NoButtonWhenRequirementsMissing(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "buildings.html")

	// Act
	_, missingReqs := findBuildForm(doc, "Forschungslabor")
	_, unknown := findBuildForm(doc, "Raketensilo")

	// Assert
	assert.False(t, missingReqs)
	assert.False(t, unknown)
}

func TestParseStatistics_RanksFollowRowOrder(t *testing.T) {
	// Arrange
	doc := loadFixture(t, "statistics.html")
	checkedAt := time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC)

	// Act
	stats, err := parseStatistics(doc, game.StatisticsResearch, checkedAt)

	// Assert
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, game.PlayerStatistics{
		Name:       "bob",
		Rank:       1,
		Points:     12345,
		Category:   game.StatisticsResearch,
		ServerDate: "19.10.2026, 14:00:00",
		CheckedAt:  checkedAt,
	}, stats[0])
	assert.Equal(t, "alice", stats[1].Name)
	assert.Equal(t, 2, stats[1].Rank)
	assert.Equal(t, 42, stats[2].Points)
}

func TestHasUserLink(t *testing.T) {
	assert.True(t, hasUserLink(loadFixture(t, "buildings.html"), "alice"))
	assert.False(t, hasUserLink(loadFixture(t, "login.html"), "alice"))
}
