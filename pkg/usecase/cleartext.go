package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"pirsvc/pkg/models"
)

// Cleartext is a development and integration-testing usecase: a plain
// lookup table behind the Usecase contract. It provides NO privacy — the
// server sees every query — and must never back a production usecase. It
// exists so the full upload/config/query path can run without a real PIR
// backend.
type Cleartext struct {
	name   string
	rows   [][]byte
	config models.Config
	keyCfg models.EvaluationKeyConfig
}

// cleartextQuery is the plaintext "ciphertext" accepted by Process.
type cleartextQuery struct {
	Index uint64 `json:"index"`
}

// NewCleartext builds a cleartext usecase over rows, splitting the table
// into shards of at most shardSize entries for the config it reports.
func NewCleartext(name string, rows [][]byte, shardSize int) *Cleartext {
	if shardSize <= 0 {
		shardSize = 1024
	}
	var maxEntry uint64
	for _, r := range rows {
		if uint64(len(r)) > maxEntry {
			maxEntry = uint64(len(r))
		}
	}
	var shards []models.ShardDescriptor
	for start := 0; start == 0 || start < len(rows); start += shardSize {
		n := len(rows) - start
		if n > shardSize {
			n = shardSize
		}
		shards = append(shards, models.ShardDescriptor{
			ShardID:    fmt.Sprintf("%s-%04d", name, len(shards)),
			NumEntries: uint64(n),
			EntrySize:  maxEntry,
		})
	}
	cfg := models.Config{
		Shards: shards,
		Params: map[string]string{"mode": "cleartext"},
	}
	cfg.ConfigID = configHash(name, cfg)
	return &Cleartext{
		name:   name,
		rows:   rows,
		config: cfg,
		keyCfg: models.EvaluationKeyConfig{
			ConfigID: cfg.ConfigID,
			Scheme:   "cleartext",
		},
	}
}

func (c *Cleartext) Config() models.Config { return c.config }

func (c *Cleartext) EvaluationKeyConfig() models.EvaluationKeyConfig { return c.keyCfg }

// Process decodes the plaintext query and returns the addressed row. The
// caller's key must be bound to this usecase's config hash, mirroring the
// contract a real scheme enforces cryptographically.
func (c *Cleartext) Process(ctx context.Context, query []byte, key models.EvaluationKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !bytes.Equal(key.Metadata.Identifier, c.config.ConfigID) {
		return nil, fmt.Errorf("evaluation key bound to a different configuration")
	}
	var q cleartextQuery
	if err := json.Unmarshal(query, &q); err != nil {
		return nil, fmt.Errorf("malformed query: %w", err)
	}
	if q.Index >= uint64(len(c.rows)) {
		return nil, fmt.Errorf("index %d out of range", q.Index)
	}
	return append([]byte(nil), c.rows[q.Index]...), nil
}

// configHash derives the configuration hash binding evaluation keys to a
// specific configuration version.
func configHash(name string, cfg models.Config) []byte {
	h := sha256.New()
	h.Write([]byte(name))
	var buf [8]byte
	for _, s := range cfg.Shards {
		h.Write([]byte(s.ShardID))
		binary.BigEndian.PutUint64(buf[:], s.NumEntries)
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], s.EntrySize)
		h.Write(buf[:])
	}
	return h.Sum(nil)
}

var _ Usecase = (*Cleartext)(nil)
