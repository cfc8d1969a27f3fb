package repositories

import (
	"strconv"

	"agenthub/internal/domain/errors"
)

// Pagination cursors encode the offset into the descending scan. The
// store consumes every scan in a fixed descending order, so an offset
// is enough to continue where the previous page stopped.

func decodeCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || offset < 0 {
		return 0, errors.ValidationErrorf("invalid pagination cursor: %s", cursor)
	}
	return offset, nil
}

func encodeCursor(offset int64) string {
	return strconv.FormatInt(offset, 10)
}
