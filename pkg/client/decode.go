package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/table"
)

type listEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *struct {
		Items       []table.Record `json:"items"`
		TotalCount  int            `json:"totalCount"`
		Page        int            `json:"page"`
		PageSize    int            `json:"pageSize"`
		TotalPages  int            `json:"totalPages"`
		HasNext     bool           `json:"hasNext"`
		HasPrevious bool           `json:"hasPrevious"`
	} `json:"data"`
}

// decodePage accepts a bare array of records or the paginated envelope.
func decodePage(raw []byte, q table.Query) (table.Page, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return table.Page{}, malformed(errors.New("empty body"))
	}

	if trimmed[0] == '[' {
		var items []table.Record
		if err := unmarshal(trimmed, &items); err != nil {
			return table.Page{}, malformed(err)
		}
		return bareArrayPage(items, q), nil
	}

	var env listEnvelope
	if err := unmarshal(trimmed, &env); err != nil {
		return table.Page{}, malformed(err)
	}
	if env.Success != nil && !*env.Success {
		return table.Page{}, &apperr.Error{
			Kind:    apperr.KindServer,
			Message: env.Error,
			Err:     errors.New("client: collaborator reported failure"),
		}
	}
	if env.Data == nil {
		return table.Page{}, malformed(errors.New("envelope has no data"))
	}

	d := env.Data
	return table.Page{
		Items: nonNil(d.Items),
		Pagination: table.Pagination{
			Page:        d.Page,
			PageSize:    d.PageSize,
			TotalCount:  d.TotalCount,
			TotalPages:  d.TotalPages,
			HasNext:     d.HasNext,
			HasPrevious: d.HasPrevious,
		},
	}, nil
}

func bareArrayPage(items []table.Record, q table.Query) table.Page {
	items = nonNil(items)
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = len(items)
	}
	return table.Page{
		Items: items,
		Pagination: table.Pagination{
			Page:        page,
			PageSize:    size,
			TotalCount:  len(items),
			TotalPages:  1,
			HasPrevious: page > 1,
		},
	}
}

func nonNil(items []table.Record) []table.Record {
	if items == nil {
		return []table.Record{}
	}
	return items
}

// decodeUser accepts the created user directly or wrapped in {data: user}.
func decodeUser(raw []byte) (form.User, error) {
	var wrapped struct {
		Data *form.User `json:"data"`
	}
	if err := unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return *wrapped.Data, nil
	}
	var user form.User
	if err := unmarshal(raw, &user); err != nil {
		return form.User{}, malformed(err)
	}
	return user, nil
}

// unmarshal keeps numbers as json.Number so ids beyond float64 precision stay
// distinct.
func unmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func malformed(err error) error {
	return &apperr.Error{Kind: apperr.KindServer, Err: fmt.Errorf("client: malformed response: %w", err)}
}
