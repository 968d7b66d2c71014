package models

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gopkg.in/guregu/null.v3"
)

// Validation errors
var (
	ErrNameRequired        = errors.New("nome is required")
	ErrDescriptionTooShort = errors.New("descricao must be at least 20 characters")
)

const (
	MinDescriptionLength = 20
	MinPerformance       = 0
	MaxPerformance       = 10
)

// Character holds the fields shared by a stored item and its teammate snapshots
type Character struct {
	Name     string      `json:"nome" db:"nome"`
	Health   null.Int    `json:"vida" db:"vida"`
	Class    null.String `json:"classe" db:"classe"`
	Level    null.Int    `json:"nivel" db:"nivel"`
	Attack   null.Int    `json:"ataque" db:"ataque"`
	Defense  null.Float  `json:"defesa" db:"defesa"`
	Active   null.Bool   `json:"ativo" db:"ativo"`
	JoinedOn null.String `json:"dataDeEntrada" db:"dataDeEntrada"` // calendar date, stored verbatim
}

// ItemInput is the request body for creating or replacing an item
type ItemInput struct {
	Character
	Performance null.Float  `json:"desempenho" db:"desempenho"` // 0-10
	Description null.String `json:"descricao" db:"descricao"`
	BestTeam    Team        `json:"melhorEquipe" db:"melhorEquipe"`
}

// Item represents a row of the Biblioteca table
type Item struct {
	ID int64 `json:"id" db:"id"`
	ItemInput
}

// Normalize clamps desempenho into its allowed range.
func (in *ItemInput) Normalize() {
	if !in.Performance.Valid {
		return
	}
	switch {
	case in.Performance.Float64 < MinPerformance:
		in.Performance.Float64 = MinPerformance
	case in.Performance.Float64 > MaxPerformance:
		in.Performance.Float64 = MaxPerformance
	}
}

// Validate checks the presence rules that must hold before a row is written.
func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Description.Valid && utf8.RuneCountInString(in.Description.String) < MinDescriptionLength {
		return ErrDescriptionTooShort
	}
	return nil
}
