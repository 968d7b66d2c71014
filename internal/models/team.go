package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BrokenTeamPlaceholder is what older clients send for an empty team after
// stringifying an object instead of a list. It decodes as "no team".
const BrokenTeamPlaceholder = "[object Object]"

var ErrInvalidTeam = errors.New("melhorEquipe must be a list of characters")

// Team is a denormalized list of teammate snapshots, stored as JSON text.
// Members are copies of sibling characters, not references.
type Team []Character

// ParseTeam decodes a team serialized as a JSON string.
func ParseTeam(s string) (Team, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == BrokenTeamPlaceholder {
		return nil, nil
	}

	var members []Character
	if err := json.Unmarshal([]byte(s), &members); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTeam, err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	return Team(members), nil
}

// UnmarshalJSON accepts a list, a JSON-encoded string holding a list, or null.
func (t *Team) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		team, err := ParseTeam(s)
		if err != nil {
			return err
		}
		*t = team
		return nil
	}

	var members []Character
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTeam, err)
	}
	if len(members) == 0 {
		*t = nil
		return nil
	}
	*t = Team(members)
	return nil
}

// Value implements driver.Valuer. An empty team is stored as NULL.
func (t Team) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]Character(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Team) Scan(src interface{}) error {
	var (
		team Team
		err  error
	)
	switch v := src.(type) {
	case nil:
	case []byte:
		team, err = ParseTeam(string(v))
	case string:
		team, err = ParseTeam(v)
	default:
		return fmt.Errorf("cannot scan %T into Team", src)
	}
	if err != nil {
		return err
	}
	*t = team
	return nil
}
