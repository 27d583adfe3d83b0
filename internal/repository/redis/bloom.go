package redis

import (
	"context"
	"hash/crc32"
	"hash/fnv"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

const (
	KeyDiscussionBloom = "bloom:discussion:ids"

	bloomHashes = 3
)

type redisBloomRepo struct {
	client  *redis.Client
	key     string
	bitSize uint64
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

// NewRedisBloomRepo builds a bloom filter stored as a redis bitmap under key
func NewRedisBloomRepo(client *redis.Client, key string, bitSize uint64) *redisBloomRepo {
	if bitSize == 0 {
		bitSize = 1
	}
	return &redisBloomRepo{
		client:  client,
		key:     key,
		bitSize: bitSize,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id int64) error {
	return r.BulkAdd(ctx, []int64{id})
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		for _, offset := range r.offsets(id) {
			pipe.SetBit(ctx, r.key, int64(offset), 1)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, 0, bloomHashes)
	for _, offset := range r.offsets(id) {
		cmds = append(cmds, pipe.GetBit(ctx, r.key, int64(offset)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

// offsets derives the bit positions of id: CRC32 and FNV64 as base hashes,
// then h1 + i*h2 for the remaining ones.
func (r *redisBloomRepo) offsets(id int64) []uint64 {
	data := strconv.AppendInt(nil, id, 10)

	h1 := uint64(crc32.ChecksumIEEE(data))
	h := fnv.New64()
	_, _ = h.Write(data)
	h2 := h.Sum64()

	res := make([]uint64, bloomHashes)
	for i := range res {
		res[i] = (h1 + uint64(i)*h2) % r.bitSize
	}
	return res
}
