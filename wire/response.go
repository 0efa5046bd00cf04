package wire

import (
	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
)

// ListResponse is the wire form of a list result, with page metadata derived from
// the query that produced it.
type ListResponse[T any] struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	Items         []T       `json:"items"`
	Total         int       `json:"total"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
	PageCount     int       `json:"page_count"`
	HasNext       bool      `json:"has_next"`
	HasPrev       bool      `json:"has_prev"`
}

// NewListResponse pairs res with the paging of the query q it answers.
// A PageSize of zero is reported as a single page holding the whole set.
func NewListResponse[T any](q listSource, res *cqrs.ListProviderResult[T]) ListResponse[T] {
	params := q.Params()
	total := res.TotalItemCount()

	size := params.PageSize
	if size <= 0 {
		size = max(total, 1)
	}
	page := params.StartIndex/size + 1
	pages := max((total+size-1)/size, 1)

	return ListResponse[T]{
		TransactionID: q.TransactionID(),
		Success:       res.Success(),
		Message:       res.Message(),
		Items:         res.Items(),
		Total:         total,
		Page:          page,
		PageSize:      size,
		PageCount:     pages,
		HasNext:       page < pages,
		HasPrev:       page > 1,
	}
}

// EncodeListResponse renders r as JSON.
func EncodeListResponse[T any](r ListResponse[T]) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}
