package game

// Page is a navigable page of the game frontend
type Page string

const (
	// PageCurrent reloads whatever page was fetched last
	PageCurrent    Page = ""
	PageOverview   Page = "overview"
	PageBuildings  Page = "buildings"
	PageResearch   Page = "research"
	PageResources  Page = "resources"
	PageEmpire     Page = "Empire"
	PageTechtree   Page = "techtree"
	PageGalaxy     Page = "galaxy"
	PageStatistics Page = "statistics"
)
