package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

// InspectRow is one stored record rendered on the inspection page.
type InspectRow struct {
	Key      string
	Topic    string
	StoredAt string
	Size     string
	Payload  string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes the record store over HTTP for live inspection.
// The endpoint accepts a ?prefix= query to narrow the key scan.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "record:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}

		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		// Listens on all interfaces so the page is reachable over the network.
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper renders record keys of the form record:<topic>:<ts>:<seq>.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:      key,
		Topic:    "-",
		StoredAt: "--:--:--",
		Size:     strconv.Itoa(len(val)) + "B",
		Payload:  payloadPreview(val),
	}

	parts := strings.SplitN(key, ":", 4)
	if len(parts) >= 3 {
		row.Topic = parts[1]
		if tsNano, err := strconv.ParseInt(strings.TrimLeft(parts[2], "0"), 10, 64); err == nil {
			row.StoredAt = time.Unix(0, tsNano).Format("15:04:05")
		}
	}
	return row
}

func payloadPreview(val []byte) string {
	preview := strings.ReplaceAll(string(val), "\n", " ")
	if len(preview) > 120 {
		preview = preview[:120] + "…"
	}
	return preview
}
