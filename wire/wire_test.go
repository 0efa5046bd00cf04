package wire_test

import (
	"net/url"
	"testing"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/filter"
	"github.com/rise-and-shine/cqsdata/wire"
)

type forecast struct {
	UID     uuid.UUID
	Summary string
}

var allowed = []string{"uid", "summary", "temperature_c", "location_id"}

func TestListQueryRoundTrip(t *testing.T) {
	params := cqrs.ListParams{
		StartIndex: 20,
		PageSize:   10,
		Filter:     filter.And(filter.Eq("summary", "Mild"), filter.In("location_id", "a", "b")),
		Sort:       filter.Desc("temperature_c"),
	}
	q := cqrs.NewListQuery[forecast](params)

	data, err := wire.EncodeListQuery(q)
	require.NoError(t, err)

	decoded, err := wire.DecodeListQuery[forecast](data, allowed...)
	require.NoError(t, err)

	assert.Equal(t, q.TransactionID(), decoded.TransactionID())
	assert.Equal(t, params, decoded.Params())
}

func TestDecodeListQuery(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantCode string
		check    func(t *testing.T, q *cqrs.ListQuery[forecast])
	}{
		{
			name: "minimal",
			data: `{"page_size":5}`,
			check: func(t *testing.T, q *cqrs.ListQuery[forecast]) {
				assert.NotEqual(t, uuid.Nil, q.TransactionID())
				assert.Equal(t, cqrs.ListParams{PageSize: 5}, q.Params())
			},
		},
		{
			name: "bare sort field",
			data: `{"sort":"summary"}`,
			check: func(t *testing.T, q *cqrs.ListQuery[forecast]) {
				assert.Equal(t, filter.Asc("summary"), q.Params().Sort)
			},
		},
		{name: "malformed json", data: `{"page_size":`, wantCode: wire.CodeInvalidEnvelope},
		{name: "bad sort direction", data: `{"sort":"summary:sideways"}`, wantCode: wire.CodeInvalidEnvelope},
		{name: "sort on unknown field", data: `{"sort":"secret:asc"}`, wantCode: wire.CodeInvalidEnvelope},
		{
			name:     "filter on unknown field",
			data:     `{"filter":{"op":"eq","field":"secret","value":1}}`,
			wantCode: filter.CodeUnknownField,
		},
		{
			name:     "filter with unknown operator",
			data:     `{"filter":{"op":"between","field":"summary","value":1}}`,
			wantCode: filter.CodeInvalidFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := wire.DecodeListQuery[forecast]([]byte(tt.data), allowed...)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errx.IsCodeIn(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, q)
		})
	}
}

func TestCustomQueryEnvelope(t *testing.T) {
	id := uuid.New()
	env, err := wire.DecodeListEnvelope([]byte(`{"transaction_id":"` + id.String() + `","start_index":3,"page_size":3}`))
	require.NoError(t, err)

	params, err := env.Params(allowed...)
	require.NoError(t, err)

	base := cqrs.NewListQueryBase[forecast](params, env.Options()...)
	assert.Equal(t, id, base.TransactionID())
	assert.Equal(t, 3, base.Params().StartIndex)
}

func TestRecordQueryRoundTrip(t *testing.T) {
	q := cqrs.NewRecordQuery[forecast](uuid.New())

	data, err := wire.EncodeRecordQuery(q)
	require.NoError(t, err)

	decoded, err := wire.DecodeRecordQuery[forecast](data)
	require.NoError(t, err)
	assert.Equal(t, q.TransactionID(), decoded.TransactionID())
	assert.Equal(t, q.UID(), decoded.UID())

	_, err = wire.DecodeRecordQuery[forecast]([]byte(`not json`))
	assert.True(t, errx.IsCodeIn(err, wire.CodeInvalidEnvelope))
}

func TestListParamsFromValues(t *testing.T) {
	cfg := wire.DefaultPageConfig()

	tests := []struct {
		name    string
		query   string
		want    cqrs.ListParams
		wantErr bool
	}{
		{name: "defaults", query: "", want: cqrs.ListParams{PageSize: 20}},
		{name: "page and size", query: "page=3&page_size=10", want: cqrs.ListParams{StartIndex: 20, PageSize: 10}},
		{name: "page below one", query: "page=0&page_size=10", want: cqrs.ListParams{PageSize: 10}},
		{name: "start index", query: "start_index=95&page_size=10", want: cqrs.ListParams{StartIndex: 95, PageSize: 10}},
		{name: "size capped", query: "page_size=1000", want: cqrs.ListParams{PageSize: 100}},
		{
			name:  "sort and filter",
			query: "sort=summary:desc&filter=" + url.QueryEscape(`{"op":"like","field":"summary","value":"C%"}`),
			want:  cqrs.ListParams{PageSize: 20, Sort: filter.Desc("summary"), Filter: filter.Like("summary", "C%")},
		},
		{name: "non numeric size", query: "page_size=ten", wantErr: true},
		{name: "bad sort", query: "sort=secret", wantErr: true},
		{name: "bad filter", query: "filter=%7B", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := wire.ListParamsFromValues(values, cfg, allowed...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewListResponse(t *testing.T) {
	items := []forecast{{UID: uuid.New(), Summary: "Mild"}}

	t.Run("paged", func(t *testing.T) {
		q := cqrs.NewListQuery[forecast](cqrs.ListParams{StartIndex: 90, PageSize: 10})
		r := wire.NewListResponse(q, cqrs.ListSuccessful(items, 100))

		assert.Equal(t, q.TransactionID(), r.TransactionID)
		assert.Equal(t, 10, r.Page)
		assert.Equal(t, 10, r.PageCount)
		assert.False(t, r.HasNext)
		assert.True(t, r.HasPrev)
		assert.Equal(t, items, r.Items)
	})

	t.Run("unpaged", func(t *testing.T) {
		q := cqrs.NewListQuery[forecast](cqrs.ListParams{})
		r := wire.NewListResponse(q, cqrs.ListSuccessful(items, 1))

		assert.Equal(t, 1, r.Page)
		assert.Equal(t, 1, r.PageCount)
		assert.Equal(t, 1, r.PageSize)
	})

	t.Run("failure has empty items", func(t *testing.T) {
		q := cqrs.NewListQuery[forecast](cqrs.ListParams{PageSize: 10})
		r := wire.NewListResponse(q, cqrs.ListFailure[forecast]("Error retrieving Items"))

		data, err := wire.EncodeListResponse(r)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"items":[]`)
		assert.Contains(t, string(data), `"success":false`)
	})
}
