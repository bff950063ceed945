package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var ErrNoAddresses = errors.New("you must provide at least one redis address")

type Instance interface {
	RawClient() redis.UniversalClient
	Ping(ctx context.Context) error
	ComposeKey(parts ...string) Key
	Publish(ctx context.Context, key Key, payload []byte) error
	Subscribe(ctx context.Context, ch chan<- string, keys ...Key)
	Close() error
}

type Key string

func (k Key) String() string {
	return string(k)
}

type SetupOptions struct {
	Username   string
	Password   string
	Database   int
	Sentinel   bool
	Addresses  []string
	MasterName string
}

type redisInst struct {
	client redis.UniversalClient
}

func Setup(ctx context.Context, opt SetupOptions) (Instance, error) {
	if len(opt.Addresses) == 0 {
		return nil, ErrNoAddresses
	}

	var client redis.UniversalClient

	if opt.Sentinel {
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    opt.MasterName,
			SentinelAddrs: opt.Addresses,
			Username:      opt.Username,
			Password:      opt.Password,
			DB:            opt.Database,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     opt.Addresses[0],
			Username: opt.Username,
			Password: opt.Password,
			DB:       opt.Database,
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	zap.S().Infow("redis, ok",
		"addresses", opt.Addresses,
	)

	return &redisInst{client: client}, nil
}

func (i *redisInst) RawClient() redis.UniversalClient {
	return i.client
}

func (i *redisInst) Ping(ctx context.Context) error {
	return i.client.Ping(ctx).Err()
}

func (i *redisInst) ComposeKey(parts ...string) Key {
	return Key("wanderplan:" + strings.Join(parts, ":"))
}

func (i *redisInst) Publish(ctx context.Context, key Key, payload []byte) error {
	return i.client.Publish(ctx, key.String(), payload).Err()
}

// Subscribe forwards every message published on the given keys into ch until
// the context is canceled. Messages arriving while ch is full are dropped;
// subscribers are expected to size their channel for their burst tolerance.
func (i *redisInst) Subscribe(ctx context.Context, ch chan<- string, keys ...Key) {
	names := make([]string, len(keys))
	for n, k := range keys {
		names[n] = k.String()
	}

	sub := i.client.Subscribe(ctx, names...)

	go func() {
		defer func() {
			_ = sub.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				select {
				case ch <- msg.Payload:
				default:
					zap.S().Warnw("redis subscription channel full, dropping message",
						"channel", msg.Channel,
					)
				}
			}
		}
	}()
}

func (i *redisInst) Close() error {
	return i.client.Close()
}
