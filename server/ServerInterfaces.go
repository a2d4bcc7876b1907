package server

// State - состояние соединения. Переходы только вперед:
// Created -> Running -> Closing -> Closed
type State int32

const (
	Created State = iota // соединение создано, поток еще не запущен
	Running              // цикл чтения команд работает
	Closing              // получен конец потока, токен выхода или ошибка
	Closed               // транспорт закрыт, шлюз уведомлен
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Running:
		return "RUNNING"
	case Closing:
		return "CLOSING"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
