package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{name: "null", body: `null`},
		{name: "empty list", body: `[]`},
		{name: "list", body: `[{"nome":"Sam"},{"nome":"Frodo"}]`, want: []string{"Sam", "Frodo"}},
		{name: "stringified list", body: `"[{\"nome\":\"Sam\"}]"`, want: []string{"Sam"}},
		{name: "broken placeholder", body: `"[object Object]"`},
		{name: "empty string", body: `""`},
		{name: "garbage string", body: `"not a team"`, wantErr: true},
		{name: "number", body: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var team Team
			err := json.Unmarshal([]byte(tt.body), &team)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTeam)
				return
			}
			require.NoError(t, err)
			assert.Len(t, team, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, name, team[i].Name)
			}
		})
	}
}

func TestTeam_ValueAndScan(t *testing.T) {
	v, err := Team(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	team := Team{{Name: "Sam"}, {Name: "Merry"}}
	v, err = team.Value()
	require.NoError(t, err)

	var scanned Team
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 2)
	assert.Equal(t, "Merry", scanned[1].Name)

	require.NoError(t, scanned.Scan([]byte(BrokenTeamPlaceholder)))
	assert.Nil(t, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(12))
}
