package team

import "fmt"

// Team is a franchise registered in the roster directory.
type Team struct {
	ID      int64
	Name    string
	Short   string
	LogoURL string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be > 0")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
