package stat

import (
	"time"
)

type AllIP struct {
	IP               string    `json:"IP"`
	Count            uint32    `json:"Count"`
	TimeLastActivity time.Time `json:"LastTime"`
}

// AddIPAddres - добавляет к кол-ву подключений от указанного Ip адреса "1" и возвращает полученное значение
func (s *Statistics) AddIPAddres(addr string) uint32 {
	s.rwM.Lock()
	defer s.rwM.Unlock()
	res := s.ipAddresses[addr]
	if time.Since(res.TimeLastActivity) > s.OldIPAddrTime {
		res.Count = 1
	} else {
		res.Count++
	}
	res.IP = addr
	res.TimeLastActivity = time.Now()
	s.ipAddresses[addr] = res
	return res.Count
}

// ReleaseIPAddres - соединение с адреса закрыто
func (s *Statistics) ReleaseIPAddres(addr string) {
	s.rwM.Lock()
	defer s.rwM.Unlock()
	if res, ok := s.ipAddresses[addr]; ok && res.Count > 0 {
		res.Count--
		s.ipAddresses[addr] = res
	}
}
