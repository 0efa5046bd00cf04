package cqrs

import (
	"slices"

	"github.com/google/uuid"
)

type outcome struct {
	success bool
	message string
}

func (o outcome) Success() bool { return o.success }
func (o outcome) Message() string { return o.message }

// CommandResult is produced by add, update and delete commands.
type CommandResult struct {
	outcome
	newID uuid.UUID
}

// NewID is the Uid of the affected record, or uuid.Nil when unknown or on failure.
func (r *CommandResult) NewID() uuid.UUID { return r.newID }

func CommandSuccessful(message string, newID uuid.UUID) *CommandResult {
	return &CommandResult{outcome: outcome{success: true, message: message}, newID: newID}
}

func CommandFailure(message string) *CommandResult {
	return &CommandResult{outcome: outcome{message: message}}
}

// RecordProviderResult carries a single record.
type RecordProviderResult[T any] struct {
	outcome
	record T
}

// Record returns the record. The second value is false on failure.
func (r *RecordProviderResult[T]) Record() (T, bool) {
	return r.record, r.success
}

func RecordSuccessful[T any](record T) *RecordProviderResult[T] {
	return &RecordProviderResult[T]{outcome: outcome{success: true, message: msgRecordRetrieved}, record: record}
}

func RecordFailure[T any](message string) *RecordProviderResult[T] {
	return &RecordProviderResult[T]{outcome: outcome{message: message}}
}

// ListProviderResult carries one page of a record set and the size of the whole set.
type ListProviderResult[T any] struct {
	outcome
	items []T
	total int
}

// Items returns a copy of the page. It is never nil.
func (r *ListProviderResult[T]) Items() []T {
	if r.items == nil {
		return []T{}
	}
	return slices.Clone(r.items)
}

// TotalItemCount is the number of records matching the filter, regardless of paging.
func (r *ListProviderResult[T]) TotalItemCount() int { return r.total }

func ListSuccessful[T any](items []T, total int) *ListProviderResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListProviderResult[T]{outcome: outcome{success: true, message: msgItemsRetrieved}, items: items, total: total}
}

func ListFailure[T any](message string) *ListProviderResult[T] {
	return &ListProviderResult[T]{outcome: outcome{message: message}, items: []T{}}
}

// FKItem is a foreign key reference to a record.
type FKItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FKListProviderResult carries foreign key references.
type FKListProviderResult struct {
	outcome
	items []FKItem
}

// Items returns a copy of the references. It is never nil.
func (r *FKListProviderResult) Items() []FKItem {
	if r.items == nil {
		return []FKItem{}
	}
	return slices.Clone(r.items)
}

func FKListSuccessful(items []FKItem) *FKListProviderResult {
	if items == nil {
		items = []FKItem{}
	}
	return &FKListProviderResult{outcome: outcome{success: true, message: msgItemsRetrieved}, items: items}
}

func FKListFailure(message string) *FKListProviderResult {
	return &FKListProviderResult{outcome: outcome{message: message}, items: []FKItem{}}
}

var (
	_ Result = (*CommandResult)(nil)
	_ Result = (*RecordProviderResult[struct{}])(nil)
	_ Result = (*ListProviderResult[struct{}])(nil)
	_ Result = (*FKListProviderResult)(nil)
)
