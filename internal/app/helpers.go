package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/jsonutil"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	return jsonutil.WriteJSON(w, status, data, headers)
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return jsonutil.ReadJSON(w, r, dst)
}

// readIDParam parses a positive integer URL parameter.
func readIDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return id, nil
}

func readListParams(r *http.Request) (api.ListParams, error) {
	var params api.ListParams
	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return params, errors.New("page must be an integer")
		}
		params.Page = &n
	}

	if pageSize := q.Get("pageSize"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil {
			return params, errors.New("pageSize must be an integer")
		}
		params.PageSize = &n
	}

	if sort := q.Get("sort"); sort != "" {
		params.Sort = &sort
	}

	return params, nil
}

// readWindowParams reads the start and end query values, both RFC 3339.
func readWindowParams(r *http.Request) (api.WindowParams, error) {
	var params api.WindowParams
	q := r.URL.Query()

	var err error
	params.Start, err = readTimeQuery(r, "start")
	if err != nil {
		return params, err
	}

	params.End, err = readTimeQuery(r, "end")
	if err != nil {
		return params, err
	}

	if exclude := q.Get("excludeId"); exclude != "" {
		params.ExcludeId, err = strconv.Atoi(exclude)
		if err != nil {
			return params, errors.New("excludeId must be an integer")
		}
	}

	return params, nil
}

func readTimeQuery(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
	}

	return t, nil
}

func readIntQuery(r *http.Request, name string, def int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}

	return n, nil
}

func toPagination(params api.ListParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}
	if params.Sort != nil {
		pagination.Sort = *params.Sort
	}

	return pagination
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
