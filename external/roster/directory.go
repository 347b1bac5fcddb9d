package roster

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/domain/season"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	"github.com/valyala/fasthttp"
)

type playerDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	IsOverseas  bool   `json:"is_overseas"`
	IsActive    bool   `json:"is_active"`
}

func (d playerDTO) toDomain() player.Player {
	return player.Player{
		ID:          d.ID,
		Name:        d.Name,
		Role:        player.Role(d.Role),
		Nationality: d.Nationality,
		IsOverseas:  d.IsOverseas,
		IsActive:    d.IsActive,
	}
}

type teamDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Short   string `json:"short_name"`
	LogoURL string `json:"logo_url"`
}

func (d teamDTO) toDomain() team.Team {
	return team.Team{ID: d.ID, Name: d.Name, Short: d.Short, LogoURL: d.LogoURL}
}

type seasonDTO struct {
	ID        int64  `json:"id"`
	Year      int    `json:"year"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current"`
}

func (d seasonDTO) toDomain() season.Season {
	return season.Season{ID: d.ID, Year: d.Year, Name: d.Name, IsCurrent: d.IsCurrent}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Players exposes the client as a player.Repository.
func (c *Client) Players() *PlayerDirectory {
	return &PlayerDirectory{client: c}
}

func (c *Client) Teams() *TeamDirectory {
	return &TeamDirectory{client: c}
}

func (c *Client) Seasons() *SeasonDirectory {
	return &SeasonDirectory{client: c}
}

type PlayerDirectory struct {
	client *Client
}

func (d *PlayerDirectory) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	var out envelope[playerDTO]
	found, err := d.client.doJSON(ctx, request{
		method: fasthttp.MethodGet,
		path:   "/players/" + strconv.FormatInt(playerID, 10),
	}, &out)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("roster get player %d: %w", playerID, err)
	}
	if !found {
		return player.Player{}, false, nil
	}
	return out.Data.toDomain(), true, nil
}

func (d *PlayerDirectory) ListByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	var out envelope[[]playerDTO]
	if _, err := d.client.doJSON(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/players/lookup",
		body:   lookupBody(playerIDs),
	}, &out); err != nil {
		return nil, fmt.Errorf("roster lookup players: %w", err)
	}

	items := make([]player.Player, 0, len(out.Data))
	for _, row := range out.Data {
		items = append(items, row.toDomain())
	}
	return items, nil
}

type TeamDirectory struct {
	client *Client
}

func (d *TeamDirectory) List(ctx context.Context) ([]team.Team, error) {
	var out envelope[[]teamDTO]
	if _, err := d.client.doJSON(ctx, request{method: fasthttp.MethodGet, path: "/teams"}, &out); err != nil {
		return nil, fmt.Errorf("roster list teams: %w", err)
	}

	items := make([]team.Team, 0, len(out.Data))
	for _, row := range out.Data {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (d *TeamDirectory) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	var out envelope[teamDTO]
	found, err := d.client.doJSON(ctx, request{
		method: fasthttp.MethodGet,
		path:   "/teams/" + strconv.FormatInt(teamID, 10),
	}, &out)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("roster get team %d: %w", teamID, err)
	}
	if !found {
		return team.Team{}, false, nil
	}
	return out.Data.toDomain(), true, nil
}

func (d *TeamDirectory) ListByIDs(ctx context.Context, teamIDs []int64) ([]team.Team, error) {
	if len(teamIDs) == 0 {
		return []team.Team{}, nil
	}

	var out envelope[[]teamDTO]
	if _, err := d.client.doJSON(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/teams/lookup",
		body:   lookupBody(teamIDs),
	}, &out); err != nil {
		return nil, fmt.Errorf("roster lookup teams: %w", err)
	}

	items := make([]team.Team, 0, len(out.Data))
	for _, row := range out.Data {
		items = append(items, row.toDomain())
	}
	return items, nil
}

type SeasonDirectory struct {
	client *Client
}

func (d *SeasonDirectory) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	return d.get(ctx, request{method: fasthttp.MethodGet, path: "/seasons/" + strconv.FormatInt(seasonID, 10)})
}

func (d *SeasonDirectory) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	return d.get(ctx, request{
		method: fasthttp.MethodGet,
		path:   "/seasons/by-year",
		query:  map[string]string{"year": strconv.Itoa(year)},
	})
}

func (d *SeasonDirectory) GetCurrent(ctx context.Context) (season.Season, bool, error) {
	return d.get(ctx, request{method: fasthttp.MethodGet, path: "/seasons/current"})
}

func (d *SeasonDirectory) get(ctx context.Context, req request) (season.Season, bool, error) {
	var out envelope[seasonDTO]
	found, err := d.client.doJSON(ctx, req, &out)
	if err != nil {
		return season.Season{}, false, fmt.Errorf("roster get season %s: %w", req.path, err)
	}
	if !found {
		return season.Season{}, false, nil
	}
	return out.Data.toDomain(), true, nil
}
