package moderation

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func Test_Moderation_Benchmark(t *testing.T) {
	// 1. Setup Badger (Temporary)
	req := require.New(t)
	path := t.TempDir()
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	wordCount := 100_000

	// --- Phase 1: SEEDING ---
	startSeed := time.Now()
	wb := db.NewWriteBatch()
	for i := 0; i < wordCount; i++ {
		key := []byte(fmt.Sprintf("%sword_%d", BlacklistPrefix, i))
		_ = wb.Set(key, nil)
	}
	err = wb.Flush()
	req.NoError(err)
	t.Logf("Seeding %d words: %v", wordCount, time.Since(startSeed))

	// --- Phase 2: LOADING ---
	startLoad := time.Now()
	words, err := LoadWords(db)
	req.NoError(err)
	req.Len(words, wordCount)
	t.Logf("Loading from Badger: %v", time.Since(startLoad))

	// --- Phase 3: BUILDING AHO-CORASICK ---
	startBuild := time.Now()
	_, err = NewModerator(words, '*', slog.Default())
	req.NoError(err)

	t.Logf("Building AC Automaton: %v", time.Since(startBuild))
	t.Logf("Total startup time for moderation: %v", time.Since(startLoad))
}

func TestParseWords(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"badger", "snake"}, ParseWords(" badger, ,snake,badger "))
	req.Empty(ParseWords(""))
}
