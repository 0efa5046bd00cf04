// Package api exposes the weather domain over HTTP.
//
// Routes:
//
//	GET    /locations                       location references
//	POST   /locations                       add a location
//	GET    /locations/:location/forecasts   forecast page of one location
//	GET    /forecasts                       forecast page across locations
//	GET    /forecasts/:uid                  one forecast
//	POST   /forecasts                       add a forecast
//	PUT    /forecasts                       update a forecast
//	DELETE /forecasts/:uid                  delete a forecast
//
// List routes accept page, page_size, start_index, sort and filter query parameters.
package api

import (
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/http/server/forward"
	"github.com/rise-and-shine/cqsdata/weather"
	"github.com/rise-and-shine/cqsdata/wire"
)

const paramLocation = "location"

// Routes returns the weather router for server.HTTPServer.RegisterRouter.
func Routes(ex cqrs.Executor, page wire.PageConfig) func(r fiber.Router) {
	return func(r fiber.Router) {
		locations := r.Group("/locations")
		locations.Get("/", forward.ToFKList[weather.LocationRef](ex))
		locations.Post("/", forward.ToAdd[weather.Location](ex, func(l *weather.Location) {
			if l.UID == uuid.Nil {
				l.UID = uuid.New()
			}
		}))
		locations.Get("/:"+paramLocation+"/forecasts",
			forward.ToList[weather.Forecast](ex, page, locationForecasts, weather.ForecastFields...))

		forecasts := r.Group("/forecasts")
		forecasts.Get("/", forward.ToList[weather.Forecast](ex, page, forward.GenericList[weather.Forecast], weather.ForecastFields...))
		forecasts.Get("/:"+forward.ParamUID, forward.ToRecord[weather.Forecast](ex))
		forecasts.Post("/", forward.ToAdd[weather.Forecast](ex, (*weather.Forecast).Prepare))
		forecasts.Put("/", forward.ToUpdate[weather.Forecast](ex))
		forecasts.Delete("/:"+forward.ParamUID, forward.ToDelete(ex, func(uid uuid.UUID) weather.Forecast {
			return weather.Forecast{UID: uid}
		}))
	}
}

func locationForecasts(
	c *fiber.Ctx,
	params cqrs.ListParams,
	opts ...cqrs.RequestOption,
) (cqrs.ListRequest[weather.Forecast], error) {
	id, err := uuid.Parse(c.Params(paramLocation))
	if err != nil {
		return nil, errx.Wrap(err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(forward.CodeInvalidPathParams),
			errx.WithFields(errx.M{paramLocation: "must be a valid uuid"}),
		)
	}
	return weather.NewForecastListQuery(id, params, opts...), nil
}
