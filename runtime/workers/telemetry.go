package workers

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// TelemetryWorker periodically logs the health of the process: cpu and ram
// of the mediator itself, badger on-disk sizes and the fill level of the
// watched channels. Reading len and cap of a channel is non-blocking.
type TelemetryWorker struct {
	log                  *slog.Logger
	db                   *badger.DB
	channels             []NamedChannel
	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewTelemetryWorker(log *slog.Logger, db *badger.DB, metricInterval time.Duration,
	lowCapacityThreshold int, channels ...NamedChannel) *TelemetryWorker {
	return &TelemetryWorker{
		log:                  log,
		db:                   db,
		channels:             channels,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.reportProcess(p)
			w.reportStore()
			w.reportChannels()
		}
	}
}

func (w *TelemetryWorker) reportProcess(p *process.Process) {
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
		return
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
		return
	}
	w.log.Info("Process usage", "pid", p.Pid, "cpu", cpu, "ram", ram)
}

func (w *TelemetryWorker) reportStore() {
	if w.db == nil {
		return
	}
	lsm, vlog := w.db.Size()
	w.log.Info("Store size", "lsm_bytes", lsm, "vlog_bytes", vlog)
}

func (w *TelemetryWorker) reportChannels() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		capacity, length := v.Cap(), v.Len()
		if ChannelPercent(length, capacity) >= w.lowCapacityThreshold {
			w.log.Warn("Channel almost full", "name", nc.Name, "len", length, "cap", capacity)
			continue
		}
		w.log.Debug("Channel capacity", "name", nc.Name, "len", length, "cap", capacity)
	}
}

// ChannelPercent is the fill level of a channel, 0 for unbuffered ones.
func ChannelPercent(length, capacity int) int {
	if capacity == 0 {
		return 0
	}
	return length * 100 / capacity
}
