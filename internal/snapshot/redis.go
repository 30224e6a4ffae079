package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/log"
	inOtel "github.com/smartaero/storefront/internal/otel"
)

const changeChannel = "storefront:snapshot-changes"

var tracer = otel.Tracer("internal/snapshot")

// RedisStore keeps each snapshot as a plain JSON string value and publishes
// every write to a pub/sub channel tagged with this writer's id, so other
// processes sharing the storage can reconcile their in-memory copies.
type RedisStore struct {
	client   *redis.Client
	writerID string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, writerID: uuid.NewString()}
}

func (s *RedisStore) Save(c context.Context, key string, value interface{}) error {
	c, span := tracer.Start(c, "RedisStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Save").
		Str(log.KeySnapshotKey, key).
		Logger()

	data, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("failed marshaling snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	env, err := json.Marshal(envelope{Version: Version, Data: data})
	if err != nil {
		err = fmt.Errorf("failed marshaling snapshot envelope with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	err = s.client.Set(c, key, env, 0).Err()
	if err != nil {
		err = fmt.Errorf("failed saving snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	err = s.client.Publish(c, changeChannel, s.writerID+" "+key).Err()
	if err != nil {
		err = fmt.Errorf("failed publishing snapshot change with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	return nil
}

func (s *RedisStore) Load(c context.Context, key string, dest interface{}) (bool, error) {
	c, span := tracer.Start(c, "RedisStore Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Load").
		Str(log.KeySnapshotKey, key).
		Logger()

	raw, err := s.client.Get(c, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		err = fmt.Errorf("failed loading snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}

	env := envelope{}
	err = json.Unmarshal([]byte(raw), &env)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling snapshot envelope with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	if env.Version != Version {
		err = fmt.Errorf(
			"snapshot key=%s has version=%d want=%d with error=%w",
			key,
			env.Version,
			Version,
			ErrVersionMismatch,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}

	err = json.Unmarshal(env.Data, dest)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Delete(c context.Context, key string) error {
	c, span := tracer.Start(c, "RedisStore Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Delete").
		Str(log.KeySnapshotKey, key).
		Logger()

	err := s.client.Del(c, key).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

// Watch delivers keys rewritten by other writers. Messages tagged with this
// store's own writer id are dropped.
func (s *RedisStore) Watch(c context.Context) (<-chan string, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Watch").
		Logger()

	sub := s.client.Subscribe(c, changeChannel)
	_, err := sub.Receive(c)
	if err != nil {
		err = fmt.Errorf("failed subscribing to snapshot changes with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-c.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				writerID, key, found := strings.Cut(msg.Payload, " ")
				if !found || writerID == s.writerID {
					continue
				}
				select {
				case out <- key:
				case <-c.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
