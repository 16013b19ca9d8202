package repository

import "errors"

// ErrNotFound возвращается, когда запись отсутствует в хранилище
var ErrNotFound = errors.New("record not found")
