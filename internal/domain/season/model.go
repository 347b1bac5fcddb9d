package season

import "fmt"

// Season is a yearly series; its ID is the series_id used by clients.
type Season struct {
	ID        int64
	Year      int
	Name      string
	IsCurrent bool
}

func (s Season) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("season id must be > 0")
	}
	if s.Year <= 0 {
		return fmt.Errorf("season year must be > 0")
	}

	return nil
}
