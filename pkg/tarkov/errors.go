package tarkov

import "fmt"

// DataSourceError reports a failed catalog fetch: transport failure, a
// non-2xx status, or a body that is not the expected JSON shape. No catalog
// is produced when it is returned.
type DataSourceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *DataSourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("data source %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("data source %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
