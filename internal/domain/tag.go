package domain

import "context"

// TagRelatedness finds tags that frequently co-occur with a set of tags.
type TagRelatedness interface {
	// Related returns the names of tags attached to events that also carry any of the given tags.
	// The input tags may or may not be part of the result.
	Related(ctx context.Context, tags []string) ([]string, error)
}
