package queue

import "errors"

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку обработчика как неисправимую: задача уходит в failed без повторов
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent проверяет была ли ошибка помечена через Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
