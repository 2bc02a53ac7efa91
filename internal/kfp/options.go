package kfp

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

type ListOptions struct {
	PageToken    string
	PageSize     int
	SortBy       string
	Filter       string
	Namespace    string
	ExperimentID string
}

func (c *Client) listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.PageToken != "" {
		q.Set("page_token", opts.PageToken)
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.SortBy != "" {
		q.Set("sort_by", opts.SortBy)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = c.config.Namespace
	}
	if namespace != "" {
		q.Set("namespace", namespace)
	}
	if opts.ExperimentID != "" {
		q.Set("experiment_id", opts.ExperimentID)
	}
	return q
}

// listAll follows next_page_token until the server stops returning one.
func listAll[T any](ctx context.Context, opts ListOptions, fetch func(context.Context, ListOptions) ([]T, string, error)) ([]T, error) {
	var all []T
	for {
		items, next, err := fetch(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" || next == opts.PageToken {
			return all, nil
		}
		opts.PageToken = next
	}
}

type predicate struct {
	Key         string `json:"key"`
	Operation   string `json:"operation"`
	StringValue string `json:"string_value"`
}

type filter struct {
	Predicates []predicate `json:"predicates"`
}

// EqualsFilter builds the serialized filter matching key == value.
func EqualsFilter(key, value string) string {
	data, _ := json.Marshal(filter{Predicates: []predicate{{
		Key:         key,
		Operation:   "EQUALS",
		StringValue: value,
	}}})
	return string(data)
}
