package moderation

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const BlacklistPrefix = "blacklist:"

// LoadWords reads the blacklisted words stored as "blacklist:{word}" keys.
// The words live in the keys, values are never read.
func LoadWords(db *badger.DB) ([]string, error) {
	var words []string
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(BlacklistPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(BlacklistPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return words, err
}

// ParseWords splits a comma separated list, trimming blanks and duplicates.
func ParseWords(csv string) []string {
	words := lo.Map(strings.Split(csv, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Uniq(lo.Compact(words))
}
