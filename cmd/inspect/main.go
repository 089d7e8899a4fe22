package main

import (
	"flag"
	"fmt"
	"log"
	"mediator/internal"
	"mediator/repositories"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
	// INSPECT_COLOURS highlights the entry types
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

var typeColours = map[string]color.Color{
	"ROOM":      color.FgGreen,
	"BREAKOUT":  color.FgCyan,
	"MEMBER":    color.FgYellow,
	"USER":      color.FgWhite,
	"ASSISTANT": color.FgMagenta,
	"MEDIATOR":  color.FgMagenta,
	"SYSTEM":    color.FgGray,
}

// Dumps the rooms, memberships and messages of a stopped mediator.
func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan, room: member: or msg:")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Detail", "Flags"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if skipped(key) {
				continue
			}
			err := item.Value(func(v []byte) error {
				row := internal.StoreMapper(key, v)
				rowType := row.Type
				if c, ok := typeColours[rowType]; ok && cfg.Colours {
					rowType = c.Render(rowType)
				}
				table.Append([]string{key, rowType, row.Detail, row.Scores})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	fmt.Printf("%d entries\n", count)
}

// skipped hides the secondary indexes and the password hashes.
func skipped(key string) bool {
	for _, prefix := range []string{repositories.BreakoutPrefix, repositories.MemberOfPrefix, repositories.AccountPrefix} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
