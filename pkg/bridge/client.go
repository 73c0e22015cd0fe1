// Package bridge mirrors decoded thermolink messages into Redis, and turns
// Redis-side field changes back into outbound Session sends, the way the
// nRF52 link's BLE characteristics were bridged to Redis hashes and pubsub
// channels.
package bridge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Client is a small Redis convenience wrapper: hash writes plus
// pub/sub, with the write-then-notify pairing used throughout the bridge.
type Client struct {
	rdb *redis.Client
	ctx context.Context
}

// NewClient connects to addr and verifies the connection with a PING.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("bridge: connect to redis at %s: %w", addr, err)
	}
	return &Client{rdb: rdb, ctx: ctx}, nil
}

// WriteAndPublishString sets field on the hash at key and publishes a
// "field:value" notification on a channel named after key, in one
// pipelined round trip.
func (c *Client) WriteAndPublishString(key, field, value string) error {
	pipe := c.rdb.Pipeline()
	pipe.HSet(c.ctx, key, field, value)
	pipe.Publish(c.ctx, key, fmt.Sprintf("%s:%s", field, value))
	_, err := pipe.Exec(c.ctx)
	return err
}

// WriteAndPublishInt is WriteAndPublishString for integer values.
func (c *Client) WriteAndPublishInt(key, field string, value int) error {
	return c.WriteAndPublishString(key, field, strconv.Itoa(value))
}

// Subscribe subscribes to channel and returns a receive-only message
// channel plus a function to stop the subscription.
func (c *Client) Subscribe(channel string) (<-chan *redis.Message, func()) {
	pubsub := c.rdb.Subscribe(c.ctx, channel)
	return pubsub.Channel(), func() { pubsub.Close() }
}

// Close closes the underlying Redis client.
func (c *Client) Close() error {
	return c.rdb.Close()
}
