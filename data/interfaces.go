package data

import (
	"errors"

	"github.com/blabu/egeonRpcGateway/dto"
)

// ErrNotFound - сессия с указанным идентификатором не сохранялась
var ErrNotFound = errors.New("session not found")

//SessionStore - интерфейс хранилища истории соединений шлюза
type SessionStore interface {
	Save(rec dto.SessionRecord) error
	Get(ID uint64) (dto.SessionRecord, error)
	ForEach(callBack func(rec dto.SessionRecord) error) error
	Close() error
}
