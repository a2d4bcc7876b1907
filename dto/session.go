package dto

import "time"

// CloseReason - причина завершения сессии
type CloseReason string

const (
	ReasonEOF   CloseReason = "eof"   // клиент закрыл поток
	ReasonQuit  CloseReason = "quit"  // получен токен завершения
	ReasonFault CloseReason = "fault" // ошибка чтения или выполнения команды

	// ReasonShutdown - соединение закрыто шлюзом при остановке
	ReasonShutdown CloseReason = "shutdown"
)

// SessionRecord - история одного соединения со шлюзом
type SessionRecord struct {
	ID           uint64        `json:"ID"`
	RemoteAddr   string        `json:"Remote"`
	Started      time.Time     `json:"Started"`
	Finished     time.Time     `json:"Finished"`
	Duration     time.Duration `json:"Duration"`
	Commands     uint64        `json:"Commands"`
	Unknown      uint64        `json:"Unknown"`
	ReceiveByte  uint64        `json:"Receive"`
	TransmitByte uint64        `json:"Transmit"`
	Reason       CloseReason   `json:"Reason"`
	Fault        string        `json:"Fault,omitempty"`
}
