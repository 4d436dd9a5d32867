package github

import (
	"iter"

	"github.com/google/go-github/v66/github"
)

// pageFetcher fetches one page of a listing.
type pageFetcher[R any] func(opts github.ListOptions) ([]R, *github.Response, error)

// paginate turns a paged GitHub listing into a lazy sequence. Pages are
// requested only as the consumer advances, so breaking out of the range
// loop stops further requests. A failed page is yielded once as an error
// and ends the sequence.
func paginate[R, T any](perPage int, fetch pageFetcher[R], convert func(R) T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		opts := github.ListOptions{PerPage: perPage}
		for {
			items, resp, err := fetch(opts)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			for _, item := range items {
				if !yield(convert(item), nil) {
					return
				}
			}

			if resp == nil || resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}
