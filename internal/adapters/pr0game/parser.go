package pr0game

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

const researchLabBusyText = "Das Forschungslabor wird zurzeit ausgebaut!"

var (
	buildingHeader = regexp.MustCompile(`^(.+?)(?:\s*\(Stufe\s*(\d+)\))?$`)
	queueEntry     = regexp.MustCompile(`(\d+)\.:\s*(\p{L}[\p{L} ]*?)\s+(\d+)`)
	serverDate     = regexp.MustCompile(`Aktualisiert:?\s*([^)]+)\)`)
)

// parseNumber reads a German formatted number: "." groups thousands, "," is
// the decimal separator
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseResources reads the resource bar present on every game page
func parseResources(doc *html.Node) (game.Resources, error) {
	var res game.Resources
	for _, field := range []struct {
		id  string
		dst *int
	}{
		{"current_metal", &res.Met},
		{"current_crystal", &res.Kris},
		{"current_deuterium", &res.Deut},
	} {
		node := findFirst(doc, byID(field.id))
		if node == nil {
			return res, &ParseError{Page: "resource bar", Element: "#" + field.id}
		}
		raw, _ := attr(node, "data-real")
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return res, &ParseError{Page: "resource bar", Element: "#" + field.id + "@data-real", Err: err}
		}
		*field.dst = int(value)
	}

	energy, err := parseEnergy(doc)
	if err != nil {
		return res, err
	}
	res.Energy = energy
	return res, nil
}

// parseEnergy reads the available part of the "available/total" energy link
func parseEnergy(doc *html.Node) (int, error) {
	links := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && strings.HasPrefix(text(n), "Energie")
	})
	for _, link := range links {
		for _, span := range findAll(link, byTag("span")) {
			content := text(span)
			if !strings.Contains(content, "/") {
				continue
			}
			value, err := parseNumber(strings.SplitN(content, "/", 2)[0])
			if err != nil {
				return 0, &ParseError{Page: "resource bar", Element: "energy", Err: err}
			}
			return int(value), nil
		}
	}
	return 0, &ParseError{Page: "resource bar", Element: "energy link"}
}

// parseProduction reads the "Pro Stunde:" row of the resources page
func parseProduction(doc *html.Node) (game.Production, error) {
	row := findFirst(doc, func(n *html.Node) bool {
		if n.Data != "tr" {
			return false
		}
		cells := findAll(n, byTag("td"))
		return len(cells) > 0 && strings.HasPrefix(text(cells[0]), "Pro Stunde:")
	})
	if row == nil {
		return game.Production{}, &ParseError{Page: "resources", Element: "Pro Stunde row"}
	}

	cells := findAll(row, byTag("td"))
	if len(cells) < 4 {
		return game.Production{}, &ParseError{Page: "resources", Element: "Pro Stunde columns"}
	}
	var values [3]float64
	for i := range values {
		v, err := parseNumber(text(cells[i+1]))
		if err != nil {
			return game.Production{}, &ParseError{Page: "resources", Element: "Pro Stunde column", Err: err}
		}
		values[i] = v
	}
	return game.Production{Met: values[0], Kris: values[1], Deut: values[2]}, nil
}

// parseBuildingHeader splits "Metallmine (Stufe 4)" into name and level. A
// header without a level belongs to a building that does not exist yet.
func parseBuildingHeader(header string) (string, int) {
	m := buildingHeader.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return header, 0
	}
	level := 0
	if m[2] != "" {
		level, _ = strconv.Atoi(m[2])
	}
	return m[1], level
}

// parseBuildingLevels reads the div.buildn headers of the buildings page
func parseBuildingLevels(doc *html.Node) (game.BuildingLevels, error) {
	var levels game.BuildingLevels
	headers := findAll(doc, byTagClass("div", "buildn"))
	if len(headers) == 0 {
		return levels, &ParseError{Page: "buildings", Element: "div.buildn"}
	}
	for _, header := range headers {
		name, level := parseBuildingHeader(text(header))
		if kind, ok := game.ParseBuildingKind(name); ok {
			levels.Set(kind, level)
		}
	}
	return levels, nil
}

// queueState is the content of div#buildlist
type queueState struct {
	active    bool
	remaining time.Duration
	entries   []game.QueueEntry
}

func parseQueue(doc *html.Node) (queueState, error) {
	var state queueState
	list := findFirst(doc, byID("buildlist"))
	if list == nil {
		return state, nil
	}

	if bar := findFirst(list, byID("progressbar")); bar != nil {
		state.active = true
		if raw, ok := attr(bar, "data-time"); ok {
			seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return state, &ParseError{Page: "queue", Element: "#progressbar@data-time", Err: err}
			}
			state.remaining = time.Duration(seconds * float64(time.Second))
		}
	}

	for _, m := range queueEntry.FindAllStringSubmatch(text(list), -1) {
		position, _ := strconv.Atoi(m[1])
		level, _ := strconv.Atoi(m[3])
		state.entries = append(state.entries, game.QueueEntry{Position: position, Name: m[2], Level: level})
	}
	if len(state.entries) > 0 {
		state.active = true
	}
	return state, nil
}

func parseResearchLabBusy(doc *html.Node) bool {
	return strings.Contains(text(doc), researchLabBusyText)
}

// buildForm is the form behind a construction's build button
type buildForm struct {
	action string
	values url.Values
}

// findBuildForm locates the div.infos block whose header names the
// construction and returns the form of its build button
func findBuildForm(doc *html.Node, name string) (buildForm, bool) {
	for _, infos := range findAll(doc, byTagClass("div", "infos")) {
		header := findFirst(infos, byTagClass("div", "buildn"))
		if header == nil {
			continue
		}
		if headerName, _ := parseBuildingHeader(text(header)); headerName != name {
			continue
		}

		form := findFirst(infos, func(n *html.Node) bool {
			return n.Data == "form" && findFirst(n, byTagClass("button", "build_submit")) != nil
		})
		if form == nil {
			return buildForm{}, false
		}

		action, _ := attr(form, "action")
		values := url.Values{}
		for _, input := range findAll(form, byTag("input")) {
			key, ok := attr(input, "name")
			if !ok {
				continue
			}
			value, _ := attr(input, "value")
			values.Add(key, value)
		}
		button := findFirst(form, byTagClass("button", "build_submit"))
		if key, ok := attr(button, "name"); ok {
			value, _ := attr(button, "value")
			values.Add(key, value)
		}
		return buildForm{action: action, values: values}, true
	}
	return buildForm{}, false
}

// parseStatistics reads the ranking table. The first row is the header.
func parseStatistics(doc *html.Node, category game.StatisticsCategory, checkedAt time.Time) ([]game.PlayerStatistics, error) {
	container := findFirst(doc, byID("statistics"))
	if container == nil {
		return nil, &ParseError{Page: "statistics", Element: "#statistics"}
	}
	table := findFirst(container, byTag("table"))
	if table == nil {
		return nil, &ParseError{Page: "statistics", Element: "ranking table"}
	}

	date := ""
	if m := serverDate.FindStringSubmatch(text(doc)); m != nil {
		date = strings.TrimSpace(m[1])
	}

	var stats []game.PlayerStatistics
	for i, row := range findAll(table, byTag("tr")) {
		if i == 0 {
			continue
		}
		cells := findAll(row, byTag("td"))
		if len(cells) == 0 {
			continue
		}
		points, err := parseNumber(text(cells[len(cells)-1]))
		if err != nil {
			return nil, &ParseError{Page: "statistics", Element: "points", Err: err}
		}
		stats = append(stats, game.PlayerStatistics{
			Name:       text(cells[0]),
			Rank:       i,
			Points:     int(points),
			Category:   category,
			ServerDate: date,
			CheckedAt:  checkedAt,
		})
	}
	return stats, nil
}

// hasUserLink reports whether the page shows the account's name as a link,
// which only happens for a logged-in session
func hasUserLink(doc *html.Node, username string) bool {
	return findFirst(doc, func(n *html.Node) bool {
		return n.Data == "a" && text(n) == username
	}) != nil
}
