// Offline MIT query tool
// Loads a class catalog and an object dump, runs one query, prints the result
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nainya/mittree/internal/logger"
	"github.com/nainya/mittree/internal/metrics"
	"github.com/nainya/mittree/pkg/codec"
	"github.com/nainya/mittree/pkg/meta"
	"github.com/nainya/mittree/pkg/mit"
	"github.com/nainya/mittree/pkg/query"
)

var (
	metaPath = flag.String("meta", "", "Class catalog JSON file")
	treePath = flag.String("tree", "", "Object dump JSON file (imdata envelope)")

	dnStr      = flag.String("dn", "", "Query by dn")
	classNames = flag.String("class", "", "Query by class names (comma separated)")

	target     = flag.String("query-target", "", "Query target: self, children or subtree")
	propFilter = flag.String("filter", "", "Property filter expression")

	rspSubtree = flag.String("rsp-subtree", "", "Response subtree: no, children or full")
	rspClass   = flag.String("rsp-class", "", "Response subtree class filter (comma separated)")
	rspFilter  = flag.String("rsp-filter", "", "Response subtree property filter expression")

	logLevel = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	pretty   = flag.Bool("pretty", false, "Pretty-print the result document")
)

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{Level: *logLevel, Pretty: true})
	log := logger.GetGlobalLogger()
	m := metrics.NewMetrics()

	if *metaPath == "" || *treePath == "" {
		fmt.Fprintln(os.Stderr, "mitquery: -meta and -tree are required")
		flag.Usage()
		os.Exit(2)
	}
	if *dnStr == "" && *classNames == "" {
		fmt.Fprintln(os.Stderr, "mitquery: one of -dn and -class is required")
		os.Exit(2)
	}

	cat, err := loadCatalog(*metaPath)
	if err != nil {
		log.Fatal("load catalog").Err(err).Str("path", *metaPath).Send()
	}

	t, err := loadTree(cat, *treePath, log, m)
	if err != nil {
		log.Fatal("load tree").Err(err).Str("path", *treePath).Send()
	}
	stats := t.Stats()
	m.UpdateTreeStats(stats.Nodes, stats.Deleted, stats.Classes)
	log.Info("tree loaded").
		Int("nodes", stats.Nodes).
		Int("deleted", stats.Deleted).
		Int("classes", stats.Classes).
		Send()

	q, kind := buildQuery()
	start := time.Now()
	results, err := query.Execute(t, q)
	duration := time.Since(start)
	if err != nil {
		m.RecordQuery(kind, "error", duration, 0)
		log.Fatal("query failed").Err(err).Send()
	}
	m.RecordQuery(kind, "ok", duration, len(results))
	log.QueryLogger(kind).GetZerolog().Info().
		Int("result_count", len(results)).
		Dur("duration_ms", duration).
		Msg("query completed")

	doc, err := codec.Encode(results)
	if err != nil {
		log.Fatal("encode results").Err(err).Send()
	}
	if *pretty {
		doc = gjson.Get(doc, "@pretty").Raw
	}
	fmt.Println(strings.TrimRight(doc, "\n"))
}

func loadCatalog(path string) (meta.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return meta.LoadJSON(string(data))
}

func loadTree(cat meta.Catalog, path string, log *logger.Logger, m *metrics.Metrics) (*mit.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mos, err := codec.Decode(cat, string(data))
	if err != nil {
		return nil, err
	}
	t, err := mit.New(cat, mit.WithLogger(*log.TreeLogger("add").GetZerolog()))
	if err != nil {
		return nil, err
	}
	for _, src := range mos {
		start := time.Now()
		_, err := t.Add(src)
		if err != nil {
			m.RecordTreeAdd("error", time.Since(start))
			return nil, err
		}
		m.RecordTreeAdd("ok", time.Since(start))
	}
	return t, nil
}

func buildQuery() (query.Query, string) {
	opts := query.Options{
		Target:            *target,
		PropFilter:        *propFilter,
		Subtree:           *rspSubtree,
		SubtreePropFilter: *rspFilter,
	}
	if *rspClass != "" {
		opts.SubtreeClassFilter = strings.Split(*rspClass, ",")
	}
	if *dnStr != "" {
		// -class alongside -dn narrows the candidate set by class
		if *classNames != "" {
			opts.ClassFilter = strings.Split(*classNames, ",")
		}
		q := query.NewDnQuery(*dnStr)
		q.Options = opts
		return q, "dn"
	}
	q := query.NewClassQuery(strings.Split(*classNames, ",")...)
	q.Options = opts
	return q, "class"
}
