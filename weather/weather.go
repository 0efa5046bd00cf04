// Package weather is a small forecast domain served through the cqrs broker.
//
// Forecasts belong to a location. Besides the built-in requests, the package
// registers ForecastListQuery, a list query pinned to one location, with its own
// handler.
package weather

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Column names usable in filters and sort specs.
const (
	ColumnUID          = "uid"
	ColumnLocationID   = "location_id"
	ColumnDate         = "date"
	ColumnTemperatureC = "temperature_c"
	ColumnSummary      = "summary"
	ColumnName         = "name"
	ColumnRegion       = "region"
)

//nolint:gochecknoglobals // fixed allowlists
var (
	// ForecastFields lists the forecast columns clients may filter and sort on.
	ForecastFields = []string{ColumnUID, ColumnLocationID, ColumnDate, ColumnTemperatureC, ColumnSummary}

	// LocationFields lists the location columns clients may filter and sort on.
	LocationFields = []string{ColumnUID, ColumnName, ColumnRegion}
)

// Forecast is the forecast of one location for one day.
type Forecast struct {
	bun.BaseModel `bun:"table:weather_forecasts,alias:forecast"`

	UID          uuid.UUID `bun:"uid,pk,type:uuid"              json:"uid"           validate:"not_nil_uuid"`
	LocationID   uuid.UUID `bun:"location_id,type:uuid,notnull" json:"location_id"   validate:"not_nil_uuid"`
	Date         time.Time `bun:"date,notnull"                  json:"date"          validate:"required"`
	TemperatureC int       `bun:"temperature_c,notnull"         json:"temperature_c" validate:"gte=-100,lte=100"`
	Summary      string    `bun:"summary,notnull"               json:"summary"       validate:"max=64"`
}

// NewForecast builds a forecast with a fresh Uid and a summary derived from the temperature.
func NewForecast(locationID uuid.UUID, date time.Time, temperatureC int) Forecast {
	return Forecast{
		UID:          uuid.New(),
		LocationID:   locationID,
		Date:         date.UTC().Truncate(24 * time.Hour), //nolint:mnd // one day
		TemperatureC: temperatureC,
		Summary:      Summarize(temperatureC),
	}
}

func (f Forecast) GetUID() uuid.UUID { return f.UID }

// TemperatureF is the temperature in degrees Fahrenheit.
func (f Forecast) TemperatureF() int {
	return 32 + f.TemperatureC*9/5 //nolint:mnd // conversion formula
}

// Prepare completes a forecast submitted by a client: it assigns a uid when
// missing and derives the summary when empty.
func (f *Forecast) Prepare() {
	if f.UID == uuid.Nil {
		f.UID = uuid.New()
	}
	if f.Summary == "" {
		f.Summary = Summarize(f.TemperatureC)
	}
}

// Summarize describes a temperature in words.
func Summarize(temperatureC int) string {
	switch {
	case temperatureC < -10:
		return "Freezing"
	case temperatureC < 0:
		return "Bracing"
	case temperatureC < 10:
		return "Chilly"
	case temperatureC < 18:
		return "Cool"
	case temperatureC < 25:
		return "Mild"
	case temperatureC < 30:
		return "Warm"
	case temperatureC < 35:
		return "Hot"
	default:
		return "Scorching"
	}
}

// Location is a place forecasts are made for.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:location"`

	UID    uuid.UUID `bun:"uid,pk,type:uuid" json:"uid"    validate:"not_nil_uuid"`
	Name   string    `bun:"name,notnull"     json:"name"   validate:"required,max=128"`
	Region string    `bun:"region"           json:"region" validate:"max=128"`
}

func (l Location) GetUID() uuid.UUID { return l.UID }

// LocationRef is the reference projection of Location, used to fill location pickers.
type LocationRef struct {
	bun.BaseModel `bun:"table:locations,alias:location"`

	UID  uuid.UUID `bun:"uid,pk,type:uuid"`
	Name string    `bun:"name"`
}

func (r LocationRef) FKID() uuid.UUID { return r.UID }
func (r LocationRef) FKName() string { return r.Name }
