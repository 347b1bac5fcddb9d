package memory

import (
	"fmt"
	"os"

	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/domain/season"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	"gopkg.in/yaml.v3"
)

const (
	TeamIDChennai   int64 = 1
	TeamIDMumbai    int64 = 2
	TeamIDBangalore int64 = 3
	TeamIDKolkata   int64 = 4
)

// Roster bundles the reference data used by the in-memory roster directory.
type Roster struct {
	Teams   []team.Team
	Players []player.Player
	Seasons []season.Season
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDChennai, Name: "Chennai Super Kings", Short: "CSK"},
		{ID: TeamIDMumbai, Name: "Mumbai Indians", Short: "MI"},
		{ID: TeamIDBangalore, Name: "Royal Challengers Bengaluru", Short: "RCB"},
		{ID: TeamIDKolkata, Name: "Kolkata Knight Riders", Short: "KKR"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: 101, Name: "Ruturaj Gaikwad", Role: player.RoleBatter, Nationality: "India", IsActive: true},
		{ID: 102, Name: "Ravindra Jadeja", Role: player.RoleAllRounder, Nationality: "India", IsActive: true},
		{ID: 103, Name: "Devon Conway", Role: player.RoleBatter, Nationality: "New Zealand", IsOverseas: true, IsActive: true},
		{ID: 104, Name: "Jasprit Bumrah", Role: player.RoleBowler, Nationality: "India", IsActive: true},
		{ID: 105, Name: "Suryakumar Yadav", Role: player.RoleBatter, Nationality: "India", IsActive: true},
		{ID: 106, Name: "Tim David", Role: player.RoleAllRounder, Nationality: "Australia", IsOverseas: true, IsActive: true},
		{ID: 107, Name: "Virat Kohli", Role: player.RoleBatter, Nationality: "India", IsActive: true},
		{ID: 108, Name: "Josh Hazlewood", Role: player.RoleBowler, Nationality: "Australia", IsOverseas: true, IsActive: true},
		{ID: 109, Name: "Phil Salt", Role: player.RoleWicketKeeper, Nationality: "England", IsOverseas: true, IsActive: true},
		{ID: 110, Name: "Sunil Narine", Role: player.RoleAllRounder, Nationality: "West Indies", IsOverseas: true, IsActive: true},
		{ID: 111, Name: "Rinku Singh", Role: player.RoleBatter, Nationality: "India", IsActive: true},
		{ID: 112, Name: "Varun Chakaravarthy", Role: player.RoleBowler, Nationality: "India", IsActive: true},
		{ID: 113, Name: "Ambati Rayudu", Role: player.RoleBatter, Nationality: "India", IsActive: false},
	}
}

func SeedSeasons() []season.Season {
	return []season.Season{
		{ID: 17, Year: 2024, Name: "Indian Premier League 2024"},
		{ID: 18, Year: 2025, Name: "Indian Premier League 2025", IsCurrent: true},
	}
}

func SeedRoster() Roster {
	return Roster{Teams: SeedTeams(), Players: SeedPlayers(), Seasons: SeedSeasons()}
}

type seedFile struct {
	Teams []struct {
		ID      int64  `yaml:"id"`
		Name    string `yaml:"name"`
		Short   string `yaml:"short"`
		LogoURL string `yaml:"logo_url"`
	} `yaml:"teams"`
	Players []struct {
		ID          int64  `yaml:"id"`
		Name        string `yaml:"name"`
		Role        string `yaml:"role"`
		Nationality string `yaml:"nationality"`
		Overseas    bool   `yaml:"overseas"`
		Active      *bool  `yaml:"active"`
	} `yaml:"players"`
	Seasons []struct {
		ID      int64  `yaml:"id"`
		Year    int    `yaml:"year"`
		Name    string `yaml:"name"`
		Current bool   `yaml:"current"`
	} `yaml:"seasons"`
}

// LoadRosterFile reads a YAML roster. Players default to active when the
// flag is omitted.
func LoadRosterFile(path string) (Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster file: %w", err)
	}

	return ParseRoster(raw)
}

func ParseRoster(raw []byte) (Roster, error) {
	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Roster{}, fmt.Errorf("decode roster yaml: %w", err)
	}

	var out Roster
	for _, row := range doc.Teams {
		item := team.Team{ID: row.ID, Name: row.Name, Short: row.Short, LogoURL: row.LogoURL}
		if err := item.Validate(); err != nil {
			return Roster{}, fmt.Errorf("team %d: %w", row.ID, err)
		}
		out.Teams = append(out.Teams, item)
	}
	for _, row := range doc.Players {
		active := true
		if row.Active != nil {
			active = *row.Active
		}
		item := player.Player{
			ID:          row.ID,
			Name:        row.Name,
			Role:        player.Role(row.Role),
			Nationality: row.Nationality,
			IsOverseas:  row.Overseas,
			IsActive:    active,
		}
		if err := item.Validate(); err != nil {
			return Roster{}, fmt.Errorf("player %d: %w", row.ID, err)
		}
		out.Players = append(out.Players, item)
	}
	for _, row := range doc.Seasons {
		item := season.Season{ID: row.ID, Year: row.Year, Name: row.Name, IsCurrent: row.Current}
		if err := item.Validate(); err != nil {
			return Roster{}, fmt.Errorf("season %d: %w", row.ID, err)
		}
		out.Seasons = append(out.Seasons, item)
	}

	return out, nil
}
