package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/billie-coop/indexrank/internal/index"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sevenDays() []index.Record {
	records := make([]index.Record, 7)
	for i := range records {
		records[i] = index.Record{
			Name:              fmt.Sprintf("logs-%d", i+1),
			PrimaryStoreBytes: int64(i+1) * 1_000_000_000,
			ShardCount:        1,
		}
	}
	return records
}

func TestRecommendedShards(t *testing.T) {
	tests := []struct {
		name   string
		sizeGB float64
		want   int
	}{
		{name: "floor_not_ceiling", sizeGB: 2000, want: 66},
		{name: "small_index_gets_one", sizeGB: 10, want: 1},
		{name: "empty_index_gets_one", sizeGB: 0, want: 1},
		{name: "exact_multiple", sizeGB: 90, want: 3},
		{name: "just_below_multiple", sizeGB: 89.99, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendedShards(tt.sizeGB, DefaultTargetShardSizeGB))
		})
	}
}

func TestBuild_Imbalance(t *testing.T) {
	records := []index.Record{
		{Name: "huge", PrimaryStoreBytes: 2_000_000_000_000, ShardCount: 20},
		{Name: "tiny", PrimaryStoreBytes: 10_000_000_000, ShardCount: 1},
	}

	rep := NewGenerator().Build(records)
	require.Len(t, rep.ByImbalance, 2)

	assert.Equal(t, ImbalanceEntry{
		Name: "huge", SizeGB: 2000, Shards: 20, CurrentRatio: 100, RecommendedShards: 66,
	}, rep.ByImbalance[0])
	assert.Equal(t, ImbalanceEntry{
		Name: "tiny", SizeGB: 10, Shards: 1, CurrentRatio: 10, RecommendedShards: 1,
	}, rep.ByImbalance[1])
}

func TestBuild_SizeRankingEndToEnd(t *testing.T) {
	rep := NewGenerator().Build(sevenDays())

	require.Len(t, rep.BySize, 5)
	var sizes []string
	for _, e := range rep.BySize {
		sizes = append(sizes, fmt.Sprintf("%.2f", e.SizeGB))
	}
	assert.Equal(t, []string{"7.00", "6.00", "5.00", "4.00", "3.00"}, sizes)
	assert.Equal(t, "logs-7", rep.BySize[0].Name)
	assert.Equal(t, 7, rep.Records)
	assert.Equal(t, int64(28_000_000_000), rep.TotalBytes)
}

func TestBuild_ShardRanking(t *testing.T) {
	records := []index.Record{
		{Name: "a", PrimaryStoreBytes: 1, ShardCount: 3},
		{Name: "b", PrimaryStoreBytes: 1, ShardCount: 12},
		{Name: "c", PrimaryStoreBytes: 1, ShardCount: 1},
		{Name: "d", PrimaryStoreBytes: 1, ShardCount: 12},
	}

	rep := (&Generator{TopN: 3}).Build(records)
	assert.Equal(t, []ShardEntry{{"b", 12}, {"d", 12}, {"a", 3}}, rep.ByShards)
}

func TestBuild_ZeroShardExcludedFromImbalance(t *testing.T) {
	records := []index.Record{
		{Name: "broken", PrimaryStoreBytes: 900_000_000_000, ShardCount: 0},
		{Name: "ok", PrimaryStoreBytes: 60_000_000_000, ShardCount: 2},
	}

	rep := NewGenerator().Build(records)

	require.Len(t, rep.ByImbalance, 1)
	assert.Equal(t, "ok", rep.ByImbalance[0].Name)
	assert.Equal(t, 1, rep.SkippedZeroShard)
	// The record still counts for the other rankings.
	assert.Equal(t, "broken", rep.BySize[0].Name)
}

func TestBuild_EmptyInput(t *testing.T) {
	rep := NewGenerator().Build(nil)

	assert.Empty(t, rep.BySize)
	assert.Empty(t, rep.ByShards)
	assert.Empty(t, rep.ByImbalance)
	assert.NotNil(t, rep.BySize)

	var buf bytes.Buffer
	r, err := NewRenderer(FormatJSON, &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, r.Render(rep))
	assert.Contains(t, buf.String(), `"by_size": []`)
}

func TestTextRenderer_Layout(t *testing.T) {
	records := []index.Record{
		{Name: "alpha", PrimaryStoreBytes: 2_000_000_000_000, ShardCount: 20},
	}

	var buf bytes.Buffer
	r, err := NewRenderer(FormatText, &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, r.Render(NewGenerator().Build(records)))

	want := strings.Join([]string{
		"Printing largest indexes by storage size",
		"Index: alpha",
		"Size: 2000.00 GB",
		"",
		"Printing largest indexes by shard count",
		"Index: alpha",
		"Shards: 20",
		"",
		"Printing least balanced indexes",
		"Index: alpha",
		"Size: 2000.00 GB",
		"Shards: 20",
		"Balance Ratio: 100",
		"Recommended Shard count is 66",
		"",
		"1 records, 2.0 TB of primary storage",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextRenderer_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatText, &buf, Options{})
	require.NoError(t, err)
	require.NoError(t, r.Render(NewGenerator().Build(nil)))

	out := buf.String()
	assert.Contains(t, out, TitleBySize)
	assert.Contains(t, out, TitleByShards)
	assert.Contains(t, out, TitleByImbalance)
	assert.NotContains(t, out, "Index:")
	assert.Less(t, strings.Index(out, TitleBySize), strings.Index(out, TitleByShards))
	assert.Less(t, strings.Index(out, TitleByShards), strings.Index(out, TitleByImbalance))
}

func TestTextSections_ZeroShardNote(t *testing.T) {
	rep := NewGenerator().Build([]index.Record{{Name: "z", PrimaryStoreBytes: 1, ShardCount: 0}})
	sections := TextSections(rep, false)
	require.Len(t, sections, 3)
	assert.Contains(t, sections[2].Body, "1 records with zero shards skipped")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatJSON, &buf, Options{})
	require.NoError(t, err)

	rep := NewGenerator().Build(sevenDays())
	require.NoError(t, r.Render(rep))

	var decoded Report
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *rep, decoded)
}

func TestMarkdownRenderer(t *testing.T) {
	records := []index.Record{{Name: "alpha", PrimaryStoreBytes: 64_000_000_000, ShardCount: 2}}
	rep := NewGenerator().Build(records)

	t.Run("raw", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := NewRenderer(FormatMarkdown, &buf, Options{RawMarkdown: true})
		require.NoError(t, err)
		require.NoError(t, r.Render(rep))
		assert.Contains(t, buf.String(), "| 1 | alpha | 64.00 | 2 | 32 | 2 |")
	})

	t.Run("rendered", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := NewRenderer(FormatMarkdown, &buf, Options{Width: 100})
		require.NoError(t, err)
		require.NoError(t, r.Render(rep))
		assert.Contains(t, buf.String(), "alpha")
	})
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer("yaml", &bytes.Buffer{}, Options{})
	assert.Error(t, err)
}
