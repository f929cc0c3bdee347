package index

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// BytesPerGB is the SI gigabyte. Sizes are reported in decimal units, not GiB.
const BytesPerGB = 1000 * 1000 * 1000

// ErrInvalidRecord is returned when a decoded row cannot form a Record.
var ErrInvalidRecord = errors.New("invalid index record")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one index's storage metadata as reported for a single day.
// Records are values and are never modified after construction.
type Record struct {
	Name              string
	PrimaryStoreBytes int64
	ShardCount        int
}

// New validates the fields and builds a Record.
func New(name string, primaryStoreBytes int64, shardCount int) (Record, error) {
	if name == "" {
		return Record{}, fmt.Errorf("%w: empty index name", ErrInvalidRecord)
	}
	if primaryStoreBytes < 0 {
		return Record{}, fmt.Errorf("%w: %s has negative size %d", ErrInvalidRecord, name, primaryStoreBytes)
	}
	return Record{Name: name, PrimaryStoreBytes: primaryStoreBytes, ShardCount: shardCount}, nil
}

// SizeGB returns the primary store size in decimal gigabytes.
func (r Record) SizeGB() float64 {
	return float64(r.PrimaryStoreBytes) / BytesPerGB
}

// BalanceRatio returns gigabytes per primary shard.
// ok is false when the record has no shards and the ratio is undefined.
func (r Record) BalanceRatio() (ratio float64, ok bool) {
	if r.ShardCount <= 0 {
		return 0, false
	}
	return r.SizeGB() / float64(r.ShardCount), true
}

// catRow mirrors a row of `_cat/indices?h=index,pri.store.size,pri&format=json`.
type catRow struct {
	Index        string    `json:"index"`
	PriStoreSize catNumber `json:"pri.store.size"`
	Pri          catNumber `json:"pri"`
}

// catNumber accepts both 42 and "42". The cat API quotes every value.
type catNumber int64

func (n *catNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidRecord, data)
	}
	*n = catNumber(v)
	return nil
}

// DecodeRecords reads a JSON array of cat rows.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var rows []catRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode index rows: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := New(row.Index, int64(row.PriStoreSize), int(row.Pri))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// EncodeRecords writes records back in the cat row shape, one indented array.
func EncodeRecords(w io.Writer, records []Record) error {
	type outRow struct {
		Index        string `json:"index"`
		PriStoreSize int64  `json:"pri.store.size"`
		Pri          int    `json:"pri"`
	}
	rows := make([]outRow, len(records))
	for i, rec := range records {
		rows[i] = outRow{Index: rec.Name, PriStoreSize: rec.PrimaryStoreBytes, Pri: rec.ShardCount}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
