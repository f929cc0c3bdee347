package report

import (
	"math"

	"github.com/billie-coop/indexrank/internal/index"
	"github.com/billie-coop/indexrank/internal/topk"
)

const (
	// DefaultTopN is how many indices each ranking lists.
	DefaultTopN = 5
	// DefaultTargetShardSizeGB is the storage one primary shard should hold.
	DefaultTargetShardSizeGB = 30.0
)

// SizeEntry is a row of the storage size ranking.
type SizeEntry struct {
	Name   string  `json:"name"`
	SizeGB float64 `json:"size_gb"`
}

// ShardEntry is a row of the shard count ranking.
type ShardEntry struct {
	Name   string `json:"name"`
	Shards int    `json:"shards"`
}

// ImbalanceEntry is a row of the storage-per-shard ranking.
type ImbalanceEntry struct {
	Name              string  `json:"name"`
	SizeGB            float64 `json:"size_gb"`
	Shards            int     `json:"shards"`
	CurrentRatio      int     `json:"current_ratio"`
	RecommendedShards int     `json:"recommended_shards"`
}

// Report holds the three rankings computed from one batch of records.
type Report struct {
	BySize      []SizeEntry      `json:"by_size"`
	ByShards    []ShardEntry     `json:"by_shards"`
	ByImbalance []ImbalanceEntry `json:"by_imbalance"`

	Records    int   `json:"records"`
	TotalBytes int64 `json:"total_bytes"`
	// SkippedZeroShard counts records left out of ByImbalance because
	// their ratio is undefined.
	SkippedZeroShard int `json:"skipped_zero_shard"`
}

// Generator builds reports. The zero value uses the defaults.
type Generator struct {
	TopN              int
	TargetShardSizeGB float64
}

// NewGenerator returns a generator with the default settings.
func NewGenerator() *Generator {
	return &Generator{TopN: DefaultTopN, TargetShardSizeGB: DefaultTargetShardSizeGB}
}

func (g *Generator) topN() int {
	if g.TopN == 0 {
		return DefaultTopN
	}
	return g.TopN
}

func (g *Generator) target() float64 {
	if g.TargetShardSizeGB <= 0 {
		return DefaultTargetShardSizeGB
	}
	return g.TargetShardSizeGB
}

// Build ranks records by size, by shard count, and by storage per shard.
// Records with no shards are excluded from the last ranking only.
func (g *Generator) Build(records []index.Record) *Report {
	n := g.topN()
	rep := &Report{Records: len(records)}

	for _, rec := range records {
		rep.TotalBytes += rec.PrimaryStoreBytes
	}

	largest := topk.Select(records, n, func(r index.Record) float64 {
		return r.SizeGB()
	})
	rep.BySize = make([]SizeEntry, len(largest))
	for i, rec := range largest {
		rep.BySize[i] = SizeEntry{Name: rec.Name, SizeGB: rec.SizeGB()}
	}

	mostShards := topk.Select(records, n, func(r index.Record) float64 {
		return float64(r.ShardCount)
	})
	rep.ByShards = make([]ShardEntry, len(mostShards))
	for i, rec := range mostShards {
		rep.ByShards[i] = ShardEntry{Name: rec.Name, Shards: rec.ShardCount}
	}

	balanced := topk.New(n, func(r index.Record) float64 {
		ratio, _ := r.BalanceRatio()
		return ratio
	})
	for _, rec := range records {
		if _, ok := rec.BalanceRatio(); !ok {
			rep.SkippedZeroShard++
			continue
		}
		balanced.Push(rec)
	}
	worst := balanced.Result()
	rep.ByImbalance = make([]ImbalanceEntry, len(worst))
	for i, rec := range worst {
		ratio, _ := rec.BalanceRatio()
		rep.ByImbalance[i] = ImbalanceEntry{
			Name:              rec.Name,
			SizeGB:            rec.SizeGB(),
			Shards:            rec.ShardCount,
			CurrentRatio:      int(math.Floor(ratio)),
			RecommendedShards: RecommendedShards(rec.SizeGB(), g.target()),
		}
	}

	return rep
}

// RecommendedShards returns floor(sizeGB / targetGB), but never less than one:
// an index smaller than the target still needs a shard.
func RecommendedShards(sizeGB, targetGB float64) int {
	return max(1, int(math.Floor(sizeGB/targetGB)))
}
