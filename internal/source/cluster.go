package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/billie-coop/indexrank/internal/index"
	"github.com/billie-coop/indexrank/internal/logging"
	"github.com/billie-coop/indexrank/internal/window"
	"github.com/dustin/go-humanize"
	"github.com/olivere/elastic/v7"
	"github.com/sirupsen/logrus"
)

// DefaultCatPath is the cat indices endpoint.
const DefaultCatPath = "/_cat/indices"

// catColumns are the only columns requested from the cat API.
const catColumns = "index,pri.store.size,pri"

// ErrNoEndpoint is returned when a cluster source is built without a host.
var ErrNoEndpoint = errors.New("no cluster endpoint configured")

// ClusterOptions configures a Cluster source.
type ClusterOptions struct {
	// Endpoint is a host[:port], or a full URL when it contains a scheme.
	Endpoint string
	// Scheme is used when Endpoint has none. Defaults to https.
	Scheme   string
	Username string
	Password string
	// CatPath defaults to DefaultCatPath.
	CatPath string
	// Days is the size of the trailing window.
	Days int
	// Timeout bounds each request. Zero means no per-request timeout.
	Timeout time.Duration

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
	Logger     *logrus.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Cluster queries the cat API once per day of the window, sequentially.
type Cluster struct {
	client  *elastic.Client
	catPath string
	days    int
	timeout time.Duration
	now     func() time.Time
	log     *logrus.Entry
}

var _ Source = (*Cluster)(nil)

// NewCluster creates a cluster source. It does not contact the cluster.
func NewCluster(opts ClusterOptions) (*Cluster, error) {
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if opts.Days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", opts.Days)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	entry := logger.WithField("endpoint", opts.Endpoint)

	clientOpts := []elastic.ClientOptionFunc{
		elastic.SetURL(BaseURL(opts.Endpoint, opts.Scheme)),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetGzip(false),
		elastic.SetRetrier(elastic.NewStopRetrier()),
		elastic.SetErrorLog(logging.Printer{Entry: entry, Level: logrus.ErrorLevel}),
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		clientOpts = append(clientOpts, elastic.SetInfoLog(logging.Printer{Entry: entry, Level: logrus.DebugLevel}))
	}
	if logger.IsLevelEnabled(logrus.TraceLevel) {
		clientOpts = append(clientOpts, elastic.SetTraceLog(logging.Printer{Entry: entry, Level: logrus.TraceLevel}))
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts, elastic.SetBasicAuth(opts.Username, opts.Password))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, elastic.SetHttpClient(opts.HTTPClient))
	}

	client, err := elastic.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster client: %w", err)
	}

	catPath := opts.CatPath
	if catPath == "" {
		catPath = DefaultCatPath
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Cluster{
		client:  client,
		catPath: "/" + strings.Trim(catPath, "/"),
		days:    opts.Days,
		timeout: opts.Timeout,
		now:     now,
		log:     entry,
	}, nil
}

// BaseURL turns an endpoint into a URL, adding scheme when it has none.
func BaseURL(endpoint, scheme string) string {
	if strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/")
	}
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimRight(endpoint, "/")
}

// Records fetches every day of the window, yesterday first.
// The first failing day aborts the whole fetch.
func (c *Cluster) Records(ctx context.Context) ([]index.Record, error) {
	var all []index.Record
	var total int64

	for day := range window.Trailing(c.now(), c.days) {
		batch, err := c.fetchDay(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch indices for %s: %w", day, err)
		}

		var dayBytes int64
		for _, rec := range batch {
			dayBytes += rec.PrimaryStoreBytes
		}
		total += dayBytes
		c.log.WithField("day", day.String()).Debugf("fetched %d indices (%s)", len(batch), humanize.Bytes(uint64(dayBytes)))

		all = append(all, batch...)
	}

	c.log.Debugf("fetched %d records over %d days (%s)", len(all), c.days, humanize.Bytes(uint64(total)))
	if all == nil {
		all = []index.Record{}
	}
	return all, nil
}

// DayPath returns the request path for one day of the window.
func (c *Cluster) DayPath(day window.Day) string {
	return c.catPath + "/" + day.Pattern()
}

func (c *Cluster) fetchDay(ctx context.Context, day window.Day) ([]index.Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("v", "")
	params.Set("h", catColumns)
	params.Set("format", "json")
	params.Set("bytes", "b")

	res, err := c.client.PerformRequest(ctx, elastic.PerformRequestOptions{
		Method: http.MethodGet,
		Path:   c.DayPath(day),
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	return index.DecodeRecords(bytes.NewReader(res.Body))
}
