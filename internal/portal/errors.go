package portal

import (
	"errors"
	"fmt"
)

// ErrValidation — отказ до коммита: полезная нагрузка не прошла проверку.
var ErrValidation = errors.New("invalid payload")

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
