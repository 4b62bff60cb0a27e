package reader

import "fmt"

var (
	errUnsupportedSync  = fmt.Errorf("reader: no sync Opener configured for a local source")
	errUnsupportedAsync = fmt.Errorf("reader: no async Opener configured for a remote source")
)

func errMissingColumn(name string) error {
	return fmt.Errorf("reader: projected column %q is absent and allow_missing_columns is false", name)
}
