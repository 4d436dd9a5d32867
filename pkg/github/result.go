package github

import "fmt"

// Operation is the action a reconciliation run took
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpNoop   Operation = "noop"
)

// Result describes what one reconciliation run changed. T is the element
// type of the change lists and S the type of the final state snapshot.
type Result[T, S any] struct {
	Resource string    `json:"resource"`
	Changed  bool      `json:"changed"`
	Op       Operation `json:"op"`
	Added    []T       `json:"added"`
	Updated  []T       `json:"updated"`
	Removed  []T       `json:"removed"`
	State    S         `json:"state"`
}

// Summary is the kind-independent view of a Result used for reporting.
type Summary struct {
	Resource string
	Changed  bool
	Op       Operation
	Added    []string
	Updated  []string
	Removed  []string
}

// Reportable is implemented by every Result.
type Reportable interface {
	Summary() Summary
}

// Summary renders the change lists as strings.
func (r *Result[T, S]) Summary() Summary {
	return Summary{
		Resource: r.Resource,
		Changed:  r.Changed,
		Op:       r.Op,
		Added:    stringify(r.Added),
		Updated:  stringify(r.Updated),
		Removed:  stringify(r.Removed),
	}
}

// finish sets Changed from the change lists and picks update or noop.
func (r *Result[T, S]) finish() {
	r.Changed = len(r.Added) > 0 || len(r.Updated) > 0 || len(r.Removed) > 0
	if r.Changed {
		r.Op = OpUpdate
	} else {
		r.Op = OpNoop
	}
}

func newResult[T, S any](resource string) *Result[T, S] {
	return &Result[T, S]{
		Resource: resource,
		Op:       OpNoop,
		Added:    []T{},
		Updated:  []T{},
		Removed:  []T{},
	}
}

func stringify[T any](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
