package domain

import "errors"

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

// Базовые ошибки домена, HTTP слой маппит их в статусы
var (
	ErrNotFound                 = errors.New("not found")
	ErrUnauthenticated          = errors.New("unauthenticated")
	ErrForbidden                = errors.New("forbidden")
	ErrValidation               = errors.New("validation failed")
	ErrConflict                 = errors.New("conflict")
	ErrChatInactive             = errors.New("chat is not active")
	ErrEmptyMessage             = errors.New("message is empty")
	ErrNotParticipant           = errors.New("not a chat participant")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
	ErrPaymentExists            = errors.New("chat already has a pending or verified payment")
	ErrChatClosed               = errors.New("chat payment was rejected")

	ErrChatActivatedWithoutPayment = errors.New("chat is active without a verified payment")
)
