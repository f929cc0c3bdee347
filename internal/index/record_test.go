package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SizeGB(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  float64
	}{
		{name: "one_gb_is_si", bytes: 1_000_000_000, want: 1.0},
		{name: "zero", bytes: 0, want: 0},
		{name: "binary_gib_is_not_one", bytes: 1 << 30, want: 1.073741824},
		{name: "two_terabytes", bytes: 2_000_000_000_000, want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Name: "idx", PrimaryStoreBytes: tt.bytes, ShardCount: 1}
			assert.InDelta(t, tt.want, r.SizeGB(), 1e-9)
		})
	}
}

func TestRecord_BalanceRatio(t *testing.T) {
	r := Record{Name: "logs", PrimaryStoreBytes: 2_000_000_000_000, ShardCount: 20}
	ratio, ok := r.BalanceRatio()
	require.True(t, ok)
	assert.InDelta(t, 100.0, ratio, 1e-9)

	zero := Record{Name: "empty", PrimaryStoreBytes: 5_000_000_000, ShardCount: 0}
	_, ok = zero.BalanceRatio()
	assert.False(t, ok, "zero shards must not produce a ratio")
}

func TestNew(t *testing.T) {
	_, err := New("", 10, 1)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = New("idx", -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	rec, err := New("idx", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, Record{Name: "idx", PrimaryStoreBytes: 10, ShardCount: 0}, rec)
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Record
		wantErr bool
	}{
		{
			name:  "numbers",
			input: `[{"index":"a","pri.store.size":1000000000,"pri":1},{"index":"b","pri.store.size":5,"pri":3}]`,
			want: []Record{
				{Name: "a", PrimaryStoreBytes: 1_000_000_000, ShardCount: 1},
				{Name: "b", PrimaryStoreBytes: 5, ShardCount: 3},
			},
		},
		{
			name:  "quoted_numbers_from_cat_api",
			input: `[{"index":"logs-2025.04.14","pri.store.size":"73400320","pri":"5"}]`,
			want:  []Record{{Name: "logs-2025.04.14", PrimaryStoreBytes: 73400320, ShardCount: 5}},
		},
		{
			name:  "empty_array",
			input: `[]`,
			want:  []Record{},
		},
		{
			name:  "null",
			input: `null`,
			want:  []Record{},
		},
		{
			name:    "malformed",
			input:   `[{"index":"a",`,
			wantErr: true,
		},
		{
			name:    "not_a_number",
			input:   `[{"index":"a","pri.store.size":"12kb","pri":1}]`,
			wantErr: true,
		},
		{
			name:    "missing_name",
			input:   `[{"pri.store.size":1,"pri":1}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRecords(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRecords_RoundTripsThroughDecode(t *testing.T) {
	in := []Record{
		{Name: "a", PrimaryStoreBytes: 7_000_000_000, ShardCount: 2},
		{Name: "b", PrimaryStoreBytes: 0, ShardCount: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeRecords(&buf, in))
	assert.Contains(t, buf.String(), `"pri.store.size": 7000000000`)

	out, err := DecodeRecords(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
