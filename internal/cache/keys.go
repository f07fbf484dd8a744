package cache

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/store"
)

// Key namespaces. Point-task keys live under "task:", list-page keys under
// "tasks:". The prefixes are disjoint by construction: the page sweep
// pattern "tasks:<owner>:" can never match a "task:" key and vice versa,
// so invalidating one kind never clears the other.
const (
	taskKeyPrefix = "task"
	pageKeyPrefix = "tasks"
)

// PageDescriptor deterministically identifies one cached listing: the
// filter set plus page number and page size. Equal queries produce equal
// descriptors, so they share a cache entry.
type PageDescriptor struct {
	Filter   store.TaskFilter
	Page     int
	PageSize int
}

// encode renders the descriptor as fixed-order colon-joined segments.
// Absent filter fields render as "-" to keep the arity stable.
func (d PageDescriptor) encode() string {
	segs := make([]string, 0, 6)

	if d.Filter.Status != nil {
		segs = append(segs, "st="+string(*d.Filter.Status))
	} else {
		segs = append(segs, "st=-")
	}
	if d.Filter.Priority != nil {
		segs = append(segs, "pr="+string(*d.Filter.Priority))
	} else {
		segs = append(segs, "pr=-")
	}
	if d.Filter.IsCompleted != nil {
		segs = append(segs, "done="+strconv.FormatBool(*d.Filter.IsCompleted))
	} else {
		segs = append(segs, "done=-")
	}
	segs = append(segs, "q="+d.Filter.Search)
	segs = append(segs, "p"+strconv.Itoa(d.Page))
	segs = append(segs, "s"+strconv.Itoa(d.PageSize))

	return strings.Join(segs, ":")
}

// TaskKey is the point-entry key for one task.
func TaskKey(ownerID, taskID uuid.UUID) string {
	return taskKeyPrefix + ":" + ownerID.String() + ":" + taskID.String()
}

// PageKey is the list-entry key for one page descriptor.
func PageKey(ownerID uuid.UUID, desc PageDescriptor) string {
	return pageKeyPrefix + ":" + ownerID.String() + ":" + desc.encode()
}

// OwnerPagePrefix is the prefix shared by every list-page key of an owner.
// Sweeping it invalidates all of that owner's cached listings.
func OwnerPagePrefix(ownerID uuid.UUID) string {
	return pageKeyPrefix + ":" + ownerID.String() + ":"
}
