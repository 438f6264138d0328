package performance

import "errors"

var (
	ErrEmptyFile      = errors.New("csv file is empty")
	ErrInvalidCSV     = errors.New("csv file could not be read")
	ErrMissingColumns = errors.New("csv file is missing required columns")
	ErrFileRequired   = errors.New("file is required")
)
