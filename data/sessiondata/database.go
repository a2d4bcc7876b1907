package sessiondata

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/blabu/egeonRpcGateway/data"
	"github.com/blabu/egeonRpcGateway/dto"
	log "github.com/blabu/egeonRpcGateway/logWrapper"

	bolt "go.etcd.io/bbolt"
)

// Sessions - бакет с историей соединений, ключ - идентификатор соединения
const Sessions = "sessions"

type boltSessionDatabase struct {
	db *bolt.DB
}

// Open - открывает (или создает) bbolt базу истории сессий
func Open(path string) (data.SessionStore, error) {
	if len(path) == 0 {
		path = "./sessions.db"
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("can not open session store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Sessions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Init session store finished fine ", path)
	return &boltSessionDatabase{db: db}, nil
}

func (d *boltSessionDatabase) Save(rec dto.SessionRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Sessions)).Put(uint64ToBytes(rec.ID), value)
	})
}

func (d *boltSessionDatabase) Get(ID uint64) (dto.SessionRecord, error) {
	var rec dto.SessionRecord
	err := d.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(Sessions)).Get(uint64ToBytes(ID))
		if value == nil {
			return data.ErrNotFound
		}
		return json.Unmarshal(value, &rec)
	})
	return rec, err
}

// ForEach - обход в порядке возрастания идентификаторов
func (d *boltSessionDatabase) ForEach(callBack func(rec dto.SessionRecord) error) error {
	return d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Sessions)).ForEach(func(key, value []byte) error {
			var rec dto.SessionRecord
			if err := json.Unmarshal(value, &rec); err != nil {
				log.Warningf("Broken session record %x: %v", key, err)
				return nil
			}
			return callBack(rec)
		})
	})
}

func (d *boltSessionDatabase) Close() error {
	return d.db.Close()
}

// big endian чтобы порядок ключей в бакете совпадал с порядком идентификаторов
func uint64ToBytes(val uint64) []byte {
	res := make([]byte, 8)
	binary.BigEndian.PutUint64(res, val)
	return res
}
