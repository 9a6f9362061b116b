package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/postgres"
)

const DefaultArchiveStream = "bridge:archive"

// RedisArchiveQueue pushes message rows onto the archive stream for the
// worker pool to persist.
type RedisArchiveQueue struct {
	rdb    *redis.Client
	stream string
}

func NewRedisArchiveQueue(rdb *redis.Client, stream string) *RedisArchiveQueue {
	if stream == "" {
		stream = DefaultArchiveStream
	}
	return &RedisArchiveQueue{rdb: rdb, stream: stream}
}

func (q *RedisArchiveQueue) Enqueue(ctx context.Context, row *models.ArchivedMessage) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"id":          row.ID,
			"session_id":  row.SessionID,
			"sender_role": row.SenderRole,
			"content":     row.Content,
			"timestamp":   row.Timestamp.UTC().Format(time.RFC3339Nano),
			"metadata":    string(row.Metadata),
		},
	}).Err()
}

// ArchiveWorkerPool drains the archive stream into Postgres. Rows are acked
// after the insert attempt; a failed insert is logged and dropped rather
// than redelivered forever.
type ArchiveWorkerPool struct {
	Redis      *redis.Client
	Archive    postgres.ArchiveRepo
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ArchiveWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Archive == nil {
		return errors.New("ArchiveWorkerPool missing dependency: Redis/Archive must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultArchiveStream
	}
	if p.Group == "" {
		p.Group = "archive-writers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ArchiveWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ArchiveWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	id := getStr("id")
	sessionID := getStr("session_id")
	if id == "" || sessionID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"session_id": sessionID,
		"message_id": id,
	})

	ts, err := time.Parse(time.RFC3339Nano, getStr("timestamp"))
	if err != nil {
		ts = time.Now().UTC()
	}

	var meta datatypes.JSON
	if raw := getStr("metadata"); raw != "" && json.Valid([]byte(raw)) {
		meta = datatypes.JSON(raw)
	}

	row := &models.ArchivedMessage{
		ID:         id,
		SessionID:  sessionID,
		SenderRole: getStr("sender_role"),
		Content:    getStr("content"),
		Timestamp:  ts,
		Metadata:   meta,
	}

	if err := p.Archive.Insert(ctx, row); err != nil {
		log.WithError(err).Error("archive insert failed")
	}
}
