// vdrctl inspects the on-disk record store of the readout: per-topic counts,
// or the stored payloads of one topic.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
	"github.com/tr-sdv-sandbox/vdr-light/vdr"
)

func main() {
	dbPath := flag.String("db", "data/vdr-records", "path to the record store")
	topic := flag.String("topic", "", "offboard topic to list (empty prints the per-topic summary)")
	limit := flag.Int("limit", 20, "max records to list per topic")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening record store: ", err)
	}
	defer db.Close()

	repository := vdr.NewRecordRepository(db, logs.FromLevelString("ERROR"))

	if *topic == "" {
		if err := printSummary(repository); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := printRecords(repository, *topic, *limit); err != nil {
		log.Fatal(err)
	}
}

func printSummary(repository *vdr.RecordRepository) error {
	counts, err := repository.CountByTopic()
	if err != nil {
		return err
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Stored records by topic"))

	table := newTable([]string{"Topic", "Records"})
	topics := lo.Keys(counts)
	sort.Strings(topics)
	for _, topic := range topics {
		table.Append([]string{topic, fmt.Sprintf("%d", counts[topic])})
	}
	table.Render()
	return nil
}

func printRecords(repository *vdr.RecordRepository, topic string, limit int) error {
	records, err := repository.List(topic, limit)
	if err != nil {
		return err
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Records on " + topic))

	table := newTable([]string{"Stored At", "Size", "Payload"})
	for _, record := range records {
		payload := string(record.Payload)
		// Keep rows readable; the full payload stays in the store.
		if len(payload) > 96 {
			payload = payload[:96] + "…"
		}
		payload = strings.ReplaceAll(payload, "\n", " ")
		table.Append([]string{
			time.Unix(0, record.StoredAtNS).Format(time.RFC3339),
			fmt.Sprintf("%dB", len(record.Payload)),
			payload,
		})
	}
	table.Render()
	return nil
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
