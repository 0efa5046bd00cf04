package weather

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/filter"
	"github.com/rise-and-shine/cqsdata/store"
	"github.com/rise-and-shine/cqsdata/val"
)

const (
	msgUnexpectedQuery = "Unexpected forecast query"
	msgInvalidQuery    = "Invalid forecast query"
)

// ForecastListQuery lists the forecasts of one location.
type ForecastListQuery struct {
	cqrs.ListQueryBase[Forecast]

	LocationID uuid.UUID `json:"location_id" validate:"not_nil_uuid"`
}

func NewForecastListQuery(
	locationID uuid.UUID,
	params cqrs.ListParams,
	opts ...cqrs.RequestOption,
) *ForecastListQuery {
	return &ForecastListQuery{
		ListQueryBase: cqrs.NewListQueryBase[Forecast](params, opts...),
		LocationID:    locationID,
	}
}

// ForecastListHandler serves ForecastListQuery. It narrows the query filter to the
// requested location and pages through the generic list algorithm.
type ForecastListHandler struct {
	inner *cqrs.ListQueryHandler[Forecast]
}

func NewForecastListHandler(opener store.Opener) *ForecastListHandler {
	return &ForecastListHandler{inner: cqrs.NewListQueryHandler[Forecast](opener)}
}

func (h *ForecastListHandler) Handle(ctx context.Context, req cqrs.Request) (*cqrs.ListProviderResult[Forecast], error) {
	q, ok := req.(*ForecastListQuery)
	if !ok || q == nil {
		return cqrs.ListFailure[Forecast](fmt.Sprintf("%s: %T", msgUnexpectedQuery, req)), nil
	}
	if err := val.ValidateSchema(q); err != nil {
		return cqrs.ListFailure[Forecast](fmt.Sprintf("%s: %v (transaction %s)", msgInvalidQuery, err, q.TransactionID())), nil
	}

	params := q.Params()
	params.Filter = filter.And(filter.Eq(ColumnLocationID, q.LocationID), params.Filter)

	return h.inner.Run(ctx, q, params)
}

// Register installs the weather handlers on b.
func Register(b *cqrs.Broker, opener store.Opener) error {
	return cqrs.RegisterListQueryHandler[Forecast](b, NewForecastListHandler(opener))
}
