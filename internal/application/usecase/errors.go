package usecase

import "errors"

var (
	// ErrInvalidQuery возвращается при некорректных параметрах запроса
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidImage возвращается при пустом, слишком большом или неподдерживаемом изображении
	ErrInvalidImage = errors.New("invalid image")

	// ErrIdentificationFailed возвращается, если внешний сервис распознавания недоступен
	ErrIdentificationFailed = errors.New("species identification failed")
)
