package form

import (
	"net/url"
	"testing"

	"github.com/meur/biblioteca/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	values := url.Values{
		"nome":          {"Aragorn"},
		"classe":        {"Guerreiro"},
		"vida":          {"120"},
		"nivel":         {"5"},
		"ataque":        {"15"},
		"defesa":        {"1.2"},
		"ativo":         {"on"},
		"dataDeEntrada": {"2024-01-10"},
		"melhorEquipe":  {`[{"nome":"Legolas"}]`},
	}

	in, err := Decode(values)
	require.NoError(t, err)

	assert.Equal(t, "Aragorn", in.Name)
	assert.Equal(t, "Guerreiro", in.Class.String)
	assert.Equal(t, int64(120), in.Health.Int64)
	assert.Equal(t, int64(5), in.Level.Int64)
	assert.Equal(t, int64(15), in.Attack.Int64)
	assert.Equal(t, 1.2, in.Defense.Float64)
	assert.True(t, in.Active.Valid)
	assert.True(t, in.Active.Bool)
	assert.Equal(t, "2024-01-10", in.JoinedOn.String)
	require.Len(t, in.BestTeam, 1)
	assert.Equal(t, "Legolas", in.BestTeam[0].Name)
}

func TestDecode_EmptyValuesAreNull(t *testing.T) {
	values := url.Values{
		"nome":          {"Frodo"},
		"classe":        {""},
		"vida":          {""},
		"defesa":        {"  "},
		"dataDeEntrada": {""},
	}

	in, err := Decode(values)
	require.NoError(t, err)

	assert.Equal(t, "Frodo", in.Name)
	assert.False(t, in.Class.Valid)
	assert.False(t, in.Health.Valid)
	assert.False(t, in.Defense.Valid)
	assert.False(t, in.JoinedOn.Valid)
	assert.False(t, in.Active.Valid)
}

func TestDecode_MatchesNamesExactly(t *testing.T) {
	// a field that merely contains a declared name is ignored
	values := url.Values{
		"nome":         {"Sam"},
		"vidaExtra":    {"abc"},
		"nivelSecreto": {"x"},
	}

	in, err := Decode(values)
	require.NoError(t, err)
	assert.Equal(t, "Sam", in.Name)
	assert.False(t, in.Health.Valid)
	assert.False(t, in.Level.Valid)
}

func TestDecode_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "int", field: "vida", value: "cem"},
		{name: "float", field: "defesa", value: "1,2"},
		{name: "bool", field: "ativo", value: "talvez"},
		{name: "date", field: "dataDeEntrada", value: "10/01/2024"},
		{name: "team", field: "melhorEquipe", value: "Legolas"},
	}

	_, err := Decode(url.Values{"nome": {"Sam"}, "melhorEquipe": {"Legolas"}})
	assert.ErrorIs(t, err, models.ErrInvalidTeam)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(url.Values{"nome": {"Sam"}, tt.field: {tt.value}})

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Equal(t, tt.value, fieldErr.Value)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDecode_PlaceholderTeam(t *testing.T) {
	in, err := Decode(url.Values{
		"nome":         {"Pippin"},
		"melhorEquipe": {models.BrokenTeamPlaceholder},
	})
	require.NoError(t, err)
	assert.Nil(t, in.BestTeam)
}

func TestDecode_DateNormalization(t *testing.T) {
	in, err := Decode(url.Values{
		"nome":          {"Merry"},
		"dataDeEntrada": {"2024-03-05T10:00:00Z"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", in.JoinedOn.String)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "sim", "SIM"} {
		b, err := parseBool(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}
	for _, v := range []string{"off", "false", "0", "não"} {
		b, err := parseBool(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}
}

func TestDecode_CheckboxSpellings(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"on", true},
		{"sim", true},
		{"true", true},
		{"off", false},
		{"não", false},
		{"0", false},
	}

	for _, tt := range tests {
		in, err := Decode(url.Values{"nome": {"Sam"}, "ativo": {tt.value}})
		require.NoError(t, err, tt.value)
		assert.True(t, in.Active.Valid, tt.value)
		assert.Equal(t, tt.want, in.Active.Bool, tt.value)
	}
}

func TestDecode_TrimsValues(t *testing.T) {
	in, err := Decode(url.Values{"nome": {"  Sam "}, "nivel": {" 7 "}})
	require.NoError(t, err)
	assert.Equal(t, "Sam", in.Name)
	assert.Equal(t, int64(7), in.Level.Int64)
}
