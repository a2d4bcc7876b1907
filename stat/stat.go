package stat

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/blabu/egeonRpcGateway/logWrapper"

	"go.uber.org/atomic"
)

// S_VERSION - Версия сервера
const S_VERSION = "v1.0.0"

// Statistics - базовые метрики работы шлюза
type Statistics struct {
	ServerVersion           string
	TimeUP                  time.Time
	MaxTimeForOneConnection atomic.Duration
	NowConnected            atomic.Int32
	MaxCuncurentConnection  atomic.Int32
	AllConnection           atomic.Uint64
	Commands                atomic.Uint64
	UnknownCommands         atomic.Uint64
	Faults                  atomic.Uint64
	OldIPAddrTime           time.Duration // после этого времени неактивности счетчик подключений с IP сбрасывается
	ipAddresses             map[string]AllIP
	rwM                     sync.RWMutex
}

// Snapshot - срез статистики для сериализации
type Snapshot struct {
	ServerVersion           string           `json:"version"`
	TimeUP                  time.Time        `json:"timeUP"`
	MaxTimeForOneConnection time.Duration    `json:"maxConnectionTime"`
	NowConnected            int32            `json:"nowConnected"`
	MaxCuncurentConnection  int32            `json:"maxConcurentConnection"`
	AllConnection           uint64           `json:"allConnection"`
	Commands                uint64           `json:"commands"`
	UnknownCommands         uint64           `json:"unknownCommands"`
	Faults                  uint64           `json:"faults"`
	IPAddresses             map[string]AllIP `json:"allIP"`
}

// NewConnection - атомарно добавляет в статистику новое соединение
func (s *Statistics) NewConnection() {
	s.AllConnection.Inc()
	now := s.NowConnected.Inc()
	for {
		max := s.MaxCuncurentConnection.Load()
		if now <= max || s.MaxCuncurentConnection.CAS(max, now) {
			return
		}
	}
}

// CloseConnection - отображет в статистеке закрытие соединения
func (s *Statistics) CloseConnection(dt time.Duration) {
	s.NowConnected.Dec()
	for {
		max := s.MaxTimeForOneConnection.Load()
		if dt <= max || s.MaxTimeForOneConnection.CAS(max, dt) {
			return
		}
	}
}

// CommandExecuted - одна выполненная команда
func (s *Statistics) CommandExecuted() {
	s.Commands.Inc()
}

// UnknownCommand - команда не найдена в реестре
func (s *Statistics) UnknownCommand() {
	s.UnknownCommands.Inc()
}

// Fault - соединение завершено ошибкой
func (s *Statistics) Fault() {
	s.Faults.Inc()
}

// CreateStatistics - создает объект со статистикой
func CreateStatistics(oldIPAddrTime time.Duration) *Statistics {
	if oldIPAddrTime == 0 {
		oldIPAddrTime = 12 * time.Hour
	}
	return &Statistics{
		ServerVersion: S_VERSION,
		TimeUP:        time.Now(),
		OldIPAddrTime: oldIPAddrTime,
		ipAddresses:   make(map[string]AllIP, 1),
	}
}

// GetSnapshot - копия текущих значений
func (s *Statistics) GetSnapshot() Snapshot {
	s.rwM.RLock()
	ips := make(map[string]AllIP, len(s.ipAddresses))
	for k, v := range s.ipAddresses {
		ips[k] = v
	}
	s.rwM.RUnlock()
	return Snapshot{
		ServerVersion:           s.ServerVersion,
		TimeUP:                  s.TimeUP,
		MaxTimeForOneConnection: s.MaxTimeForOneConnection.Load(),
		NowConnected:            s.NowConnected.Load(),
		MaxCuncurentConnection:  s.MaxCuncurentConnection.Load(),
		AllConnection:           s.AllConnection.Load(),
		Commands:                s.Commands.Load(),
		UnknownCommands:         s.UnknownCommands.Load(),
		Faults:                  s.Faults.Load(),
		IPAddresses:             ips,
	}
}

func (s *Statistics) GetJsonStat() []byte {
	res, err := json.Marshal(s.GetSnapshot())
	if err != nil {
		log.Warning(err.Error())
		return []byte{}
	}
	return res
}
