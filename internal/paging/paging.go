// Package paging adapts the platform's paginated envelope to the shape handed
// to SDK callers.
//
// The server wraps list results as
//
//	{"_metadata": {"offset": 0, "totalRecords": 42}, "records": [...]}
//
// and callers receive
//
//	{"metadata": {"offset": 0, "totalRecords": 42}, "records": [...]}
//
// Records are not touched here. Key conversion of records is the caller's
// job.
package paging

// Metadata describes where a page sits in the full result set
type Metadata struct {
	Offset       int `json:"offset"`
	TotalRecords int `json:"totalRecords"`
}

// ServerPage is a page as sent by the platform
type ServerPage[T any] struct {
	Metadata Metadata `json:"_metadata"`
	Records  []T      `json:"records"`
}

// Page is a page as returned to callers
type Page[T any] struct {
	Metadata Metadata `json:"metadata"`
	Records  []T      `json:"records"`
}

// FormatPaginatedDataFromServer republishes the server envelope under the
// client-facing field names. Records are passed through as the same slice.
func FormatPaginatedDataFromServer[T any](page ServerPage[T]) Page[T] {
	return Page[T]{
		Metadata: page.Metadata,
		Records:  page.Records,
	}
}

// NextOffset is the offset of the page following one of pageLen records
func (m Metadata) NextOffset(pageLen int) int {
	return m.Offset + pageLen
}

// HasMore reports whether records remain after a page of pageLen records
func (m Metadata) HasMore(pageLen int) bool {
	return pageLen > 0 && m.NextOffset(pageLen) < m.TotalRecords
}

// MapRecords applies fn to every record, keeping the metadata. It stops at
// the first error.
func MapRecords[T, U any](page Page[T], fn func(T) (U, error)) (Page[U], error) {
	out := Page[U]{Metadata: page.Metadata}
	if page.Records == nil {
		return out, nil
	}
	out.Records = make([]U, 0, len(page.Records))
	for _, r := range page.Records {
		u, err := fn(r)
		if err != nil {
			return Page[U]{}, err
		}
		out.Records = append(out.Records, u)
	}
	return out, nil
}
