package cqrs

import (
	"github.com/google/uuid"
)

// UIDColumn is the column a HasUID record stores its Uid in.
const UIDColumn = "uid"

// HasUID is implemented by records that expose a structural Uid.
// Record queries on such records match the uid column by equality, and commands
// report the Uid as the NewID of their result.
type HasUID interface {
	GetUID() uuid.UUID
}

// FKRecord is implemented by records that can be listed as foreign key references.
type FKRecord interface {
	FKID() uuid.UUID
	FKName() string
}

// uidOf returns rec's Uid when rec, or a pointer to it, implements HasUID.
func uidOf[T any](rec *T) (uuid.UUID, bool) {
	if v, ok := any(*rec).(HasUID); ok {
		return v.GetUID(), true
	}
	if v, ok := any(rec).(HasUID); ok {
		return v.GetUID(), true
	}
	return uuid.Nil, false
}

// exposesUID reports whether T takes part in the Uid equality strategy.
func exposesUID[T any]() bool {
	var zero T
	_, ok := uidOf(&zero)
	return ok
}
