// Package apperr определяет доменную таксономию ошибок жизненных циклов:
// ошибки валидации, отсутствия сущности, запрета по роли, конфликта и
// исчерпанной квоты. Транспортный слой отображает вид ошибки в HTTP-статус,
// не раскрывая внутренних деталей.
package apperr

import "errors"

// Kind — вид доменной ошибки.
type Kind int

const (
	// KindInternal — неожиданная ошибка, наружу уходит общим сообщением.
	KindInternal Kind = iota
	// KindValidation — некорректный ввод или нарушение перечисления.
	KindValidation
	// KindNotFound — сущность не найдена. Сюда же намеренно сведён доступ
	// не-участника, чтобы не раскрывать существование записи.
	KindNotFound
	// KindForbidden — операция запрещена для роли пользователя.
	KindForbidden
	// KindConflict — дубликат, уже обработанная запись или иной конфликт.
	KindConflict
	// KindQuota — исчерпана квота наджей.
	KindQuota
)

// Error — доменная ошибка с видом и человекочитаемым сообщением.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Validation возвращает ошибку валидации с сообщением msg.
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// NotFound возвращает ошибку отсутствия сущности с сообщением msg.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Forbidden возвращает ошибку запрета по роли с сообщением msg.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// Conflict возвращает ошибку конфликта с сообщением msg.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Quota возвращает ошибку исчерпанной квоты с сообщением msg.
func Quota(msg string) error { return &Error{Kind: KindQuota, Msg: msg} }

// KindOf возвращает вид ошибки err, KindInternal для недоменных ошибок.
// Вид сохраняется и под обёртками fmt.Errorf("%s: %w", ...).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message возвращает сообщение доменной ошибки или fallback для
// недоменных ошибок, чтобы наружу не утекали внутренние детали.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
