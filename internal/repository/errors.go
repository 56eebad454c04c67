package repository

import "errors"

// ErrDuplicate возвращается при нарушении уникального индекса
var ErrDuplicate = errors.New("duplicate record")
