// Package form decodes HTML form submissions into items.
//
// Every accepted field is declared once on itemForm with the type it must
// be parsed as. Field names are matched exactly; a field that is not
// declared is ignored rather than guessed at.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/meur/biblioteca/internal/models"
	"gopkg.in/guregu/null.v3"
)

// DateLayout is the canonical storage format for date fields
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02T15:04"}

// itemForm is the declared shape of a Biblioteca form submission
type itemForm struct {
	Name        string      `schema:"nome"`
	Class       null.String `schema:"classe"`
	Health      null.Int    `schema:"vida"`
	Level       null.Int    `schema:"nivel"`
	Attack      null.Int    `schema:"ataque"`
	Defense     null.Float  `schema:"defesa"`
	Active      null.Bool   `schema:"ativo"`
	JoinedOn    date        `schema:"dataDeEntrada"`
	Performance null.Float  `schema:"desempenho"`
	Description null.String `schema:"descricao"`
	BestTeam    string      `schema:"melhorEquipe"`
}

// FieldError reports a value that could not be parsed as its declared type
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var errNotBool = errors.New("not a boolean")

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(null.Bool{}, convertCheckbox)
	return d
}

// Decode parses a submitted form into an ItemInput. Blank values are null.
func Decode(values url.Values) (models.ItemInput, error) {
	var in models.ItemInput

	values = trimmed(values)

	var f itemForm
	if err := decoder.Decode(&f, values); err != nil {
		return in, fieldError(err, values)
	}

	team, err := models.ParseTeam(f.BestTeam)
	if err != nil {
		return in, &FieldError{Field: "melhorEquipe", Value: f.BestTeam, Err: err}
	}

	in.Name = f.Name
	in.Class = f.Class
	in.Health = f.Health
	in.Level = f.Level
	in.Attack = f.Attack
	in.Defense = f.Defense
	in.Active = f.Active
	in.JoinedOn = null.String(f.JoinedOn)
	in.Performance = f.Performance
	in.Description = f.Description
	in.BestTeam = team
	return in, nil
}

func trimmed(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, vs := range values {
		for _, v := range vs {
			out[key] = append(out[key], strings.TrimSpace(v))
		}
	}
	return out
}

// fieldError reports the first failing field in name order.
func fieldError(err error, values url.Values) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) || len(multi) == 0 {
		return err
	}

	keys := make([]string, 0, len(multi))
	for key := range multi {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	key := keys[0]
	cause := multi[key]
	var convErr schema.ConversionError
	if errors.As(cause, &convErr) {
		cause = convErr.Err
		if cause == nil {
			// only the checkbox converter fails without a cause
			cause = errNotBool
		}
	}
	return &FieldError{Field: key, Value: values.Get(key), Err: cause}
}

// convertCheckbox accepts checkbox and yes/no spellings. An invalid
// reflect.Value makes the decoder report a conversion error.
func convertCheckbox(raw string) reflect.Value {
	if raw == "" {
		return reflect.ValueOf(null.Bool{})
	}
	b, err := parseBool(raw)
	if err != nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(null.BoolFrom(b))
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "sim", "yes":
		return true, nil
	case "off", "nao", "não", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errNotBool
	}
	return b, nil
}

// date is a calendar day normalized to DateLayout
type date null.String

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *date) UnmarshalText(text []byte) error {
	raw := string(text)
	if raw == "" {
		*d = date{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = date(null.StringFrom(t.Format(DateLayout)))
			return nil
		}
	}
	return fmt.Errorf("expected a date like %s", DateLayout)
}
