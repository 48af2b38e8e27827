package pr0game

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

// ResourceSnapshot reads the stockpile from the empire view
func (c *Client) ResourceSnapshot(ctx context.Context) (game.Resources, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetchPage(ctx, game.PageEmpire)
	if err != nil {
		return game.Resources{}, err
	}
	return parseResources(doc)
}

// HourlyProduction reads the per-hour production of the resources page
func (c *Client) HourlyProduction(ctx context.Context) (game.Production, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetchPage(ctx, game.PageResources)
	if err != nil {
		return game.Production{}, err
	}
	return parseProduction(doc)
}

// BuildingLevels reads every building level from the buildings page
func (c *Client) BuildingLevels(ctx context.Context) (game.BuildingLevels, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetchPage(ctx, game.PageBuildings)
	if err != nil {
		return game.BuildingLevels{}, err
	}
	return parseBuildingLevels(doc)
}

func (c *Client) queueState(ctx context.Context, queue game.QueueKind) (queueState, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetchPage(ctx, queue.Page())
	if err != nil {
		return queueState{}, err
	}
	return parseQueue(doc)
}

// IsQueueActive reports whether anything is being constructed in the queue
func (c *Client) IsQueueActive(ctx context.Context, queue game.QueueKind) (bool, error) {
	state, err := c.queueState(ctx, queue)
	if err != nil {
		return false, err
	}
	return state.active, nil
}

// ActiveQueueRemaining returns the remaining time of the running item
func (c *Client) ActiveQueueRemaining(ctx context.Context, queue game.QueueKind) (time.Duration, error) {
	state, err := c.queueState(ctx, queue)
	if err != nil {
		return 0, err
	}
	return state.remaining, nil
}

// QueuedItems lists the entries of the queue in position order
func (c *Client) QueuedItems(ctx context.Context, queue game.QueueKind) ([]game.QueueEntry, error) {
	state, err := c.queueState(ctx, queue)
	if err != nil {
		return nil, err
	}
	return state.entries, nil
}

// ResearchLabBusy reports whether the research page refuses research
// because the lab is being upgraded
func (c *Client) ResearchLabBusy(ctx context.Context) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetchPage(ctx, game.PageResearch)
	if err != nil {
		return false, err
	}
	return parseResearchLabBusy(doc), nil
}

// SubmitConstruction presses the build button of the named construction
func (c *Client) SubmitConstruction(ctx context.Context, queue game.QueueKind, name string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	pageURL := c.pageURL(queue.Page(), nil)
	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return err
	}
	form, ok := findBuildForm(doc, name)
	if !ok {
		return &NotFoundError{Page: queue.String(), Name: name}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("invalid page url: %w", err)
	}
	action, err := url.Parse(form.action)
	if err != nil {
		return &ParseError{Page: queue.String(), Element: "build form action", Err: err}
	}
	if _, err := c.do(ctx, http.MethodPost, base.ResolveReference(action).String(), form.values); err != nil {
		return fmt.Errorf("failed to submit %s: %w", name, err)
	}
	return nil
}

// Browse visits a page without reading it
func (c *Client) Browse(ctx context.Context, page game.Page) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.fetchPage(ctx, page)
	return err
}

// PlayerStatistics reads one category of the public ranking
func (c *Client) PlayerStatistics(ctx context.Context, category game.StatisticsCategory) ([]game.PlayerStatistics, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetch(ctx, c.pageURL(game.PageStatistics, url.Values{"type": {string(category)}}))
	if err != nil {
		return nil, err
	}
	return parseStatistics(doc, category, c.clock.Now())
}

// VerifySession loads the landing page and checks that it shows the account
func (c *Client) VerifySession(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	doc, err := c.fetch(ctx, c.landingURL())
	if err != nil {
		return err
	}
	if c.username != "" && !hasUserLink(doc, c.username) {
		return ErrSessionInvalid
	}
	return nil
}
