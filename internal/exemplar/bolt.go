package exemplar

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/bainum-project/talkscore/internal/model"
)

var bucketExemplars = []byte("exemplars")

// storedExemplar is the bbolt record format. Keys are big-endian
// sequence numbers so iteration replays insertion order, which the
// retrieval tie-break depends on.
type storedExemplar struct {
	Text       string                 `json:"text"`
	Category   model.Category         `json:"category"`
	Embedding  []float32              `json:"embedding"`
	Indicators []string               `json:"indicators,omitempty"`
	Source     string                 `json:"source,omitempty"`
}

type boltBackend struct {
	db *bbolt.DB
}

// Open creates a store backed by a bbolt file, loading any previously
// persisted exemplars into memory.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("exemplar: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketExemplars)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("exemplar: create bucket: %w", err)
	}

	s := NewStore()
	s.db = &boltBackend{db: db}

	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("exemplar: load: %w", err)
	}

	return s, nil
}

// load replays persisted exemplars in sequence order.
func (s *Store) load() error {
	return s.db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExemplars)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return nil // skip foreign keys
			}
			var rec storedExemplar
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // skip corrupted entries
			}

			ex := model.Exemplar{
				Text:      rec.Text,
				Category:  rec.Category,
				Embedding: rec.Embedding,
				Metadata: model.ExemplarMetadata{
					Indicators: rec.Indicators,
					Source:     rec.Source,
				},
			}

			if s.dimension == 0 {
				s.dimension = len(ex.Embedding)
			} else if len(ex.Embedding) != s.dimension {
				return nil // mixed-model leftover; unusable
			}

			seq := binary.BigEndian.Uint64(k)
			key := upsertKey(ex.Text, ex.Category)
			s.byCategory[ex.Category] = append(s.byCategory[ex.Category], ex)
			s.index[key] = position{category: ex.Category, idx: len(s.byCategory[ex.Category]) - 1}
			s.seqs[key] = seq
			if seq >= s.nextSeq {
				s.nextSeq = seq + 1
			}
			return nil
		})
	})
}

func (b *boltBackend) put(seq uint64, ex model.Exemplar) error {
	rec := storedExemplar{
		Text:       ex.Text,
		Category:   ex.Category,
		Embedding:  ex.Embedding,
		Indicators: ex.Metadata.Indicators,
		Source:     ex.Metadata.Source,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketExemplars).Put(key, data)
	})
}

func (b *boltBackend) clear() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketExemplars); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketExemplars)
		return err
	})
}

func (b *boltBackend) close() error {
	return b.db.Close()
}
