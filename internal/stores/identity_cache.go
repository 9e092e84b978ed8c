package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	identityRecordVersionV1 = 1

	maxFieldLen = 65535
)

var (
	ErrCacheRedisUnavailable = errors.New("identity cache redis unavailable")
)

// IdentityRecord is the cached projection of a resolved identity.
type IdentityRecord struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// IdentityCacheStore persists identity records in Redis keyed by a credential
// digest.
type IdentityCacheStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewIdentityCacheStore(redisClient redis.UniversalClient, prefix string, ttl time.Duration) *IdentityCacheStore {
	if prefix == "" {
		prefix = "agid"
	}
	return &IdentityCacheStore{
		redis:  redisClient,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *IdentityCacheStore) key(digest string) string {
	return s.prefix + ":" + digest
}

func (s *IdentityCacheStore) Save(ctx context.Context, digest string, record *IdentityRecord) error {
	encoded, err := encodeIdentityRecord(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(digest), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheRedisUnavailable, err)
	}

	return nil
}

// Get returns the cached record for digest. found is false on a miss or when
// the stored record cannot be decoded; a stale on-disk format is a miss, not
// an error.
func (s *IdentityCacheStore) Get(ctx context.Context, digest string) (*IdentityRecord, bool, error) {
	data, err := s.redis.Get(ctx, s.key(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrCacheRedisUnavailable, err)
	}

	record, err := decodeIdentityRecord(data)
	if err != nil {
		return nil, false, nil
	}

	return record, true, nil
}

func (s *IdentityCacheStore) Delete(ctx context.Context, digest string) error {
	if err := s.redis.Del(ctx, s.key(digest)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheRedisUnavailable, err)
	}
	return nil
}

func encodeIdentityRecord(record *IdentityRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(identityRecordVersionV1)

	for _, field := range []string{
		record.UserID,
		record.Email,
		record.FirstName,
		record.LastName,
		record.AvatarURL,
	} {
		if len(field) > maxFieldLen {
			return nil, errors.New("identity record field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeIdentityRecord(data []byte) (*IdentityRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != identityRecordVersionV1 {
		return nil, errors.New("invalid identity record version")
	}

	fields := make([]string, 5)
	for i := range fields {
		var fieldLen uint16
		if err := binary.Read(reader, binary.BigEndian, &fieldLen); err != nil {
			return nil, err
		}
		field := make([]byte, fieldLen)
		if _, err := io.ReadFull(reader, field); err != nil {
			return nil, err
		}
		fields[i] = string(field)
	}

	return &IdentityRecord{
		UserID:    fields[0],
		Email:     fields[1],
		FirstName: fields[2],
		LastName:  fields[3],
		AvatarURL: fields[4],
	}, nil
}
