package models

// State — жизненный цикл сущности, созданной на клиенте до подтверждения сервером.
//
//	pending -> confirmed  (сервер вернул запись)
//	pending -> failed     (запрос упал, запись откатили)
//
// Записи, пришедшие с сервера, сразу confirmed.
type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)
