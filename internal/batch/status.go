// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package batch

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"sync/atomic"
	"time"
)

type status struct {
	checked          uint64
	compromised      uint64
	failed           uint64
	requestTimeTotal uint64
	start            time.Time
	ticker           *time.Ticker
	progress         chan bool
}

func newStatus(interval time.Duration) *status {
	return &status{
		start:    time.Now(),
		ticker:   time.NewTicker(interval),
		progress: make(chan bool),
	}
}

// BeginProgress reports the progress of the batch on every tick.
func (s *status) BeginProgress() {
	go func() {
		for {
			select {
			case <-s.progress:
				return
			case <-s.ticker.C:
				log.Info().Msgf("%d passwords checked, %d compromised. %.0f checks/s",
					atomic.LoadUint64(&s.checked), atomic.LoadUint64(&s.compromised), s.checksPerSecond())
			}
		}
	}()
}

func (s *status) Checked(compromised bool, millis int64) {
	atomic.AddUint64(&s.requestTimeTotal, uint64(millis))
	atomic.AddUint64(&s.checked, 1)
	if compromised {
		atomic.AddUint64(&s.compromised, 1)
	}
}

func (s *status) Failed() {
	atomic.AddUint64(&s.failed, 1)
}

func (s *status) checksPerSecond() float64 {
	checked := float64(atomic.LoadUint64(&s.checked))
	elapsed := time.Since(s.start)
	if elapsed.Nanoseconds() > 0 {
		return checked / elapsed.Seconds()
	}

	return checked
}

func (s *status) Done() Summary {
	s.ticker.Stop()
	s.progress <- true

	sum := Summary{
		Checked:     atomic.LoadUint64(&s.checked),
		Compromised: atomic.LoadUint64(&s.compromised),
		Failed:      atomic.LoadUint64(&s.failed),
		Elapsed:     time.Since(s.start),
	}

	var requestAverage float64
	if sum.Checked > 0 {
		requestAverage = float64(atomic.LoadUint64(&s.requestTimeTotal)) / float64(sum.Checked)
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("finished checking %s passwords in %v. %.0f checks/s", p.Sprintf("%d", sum.Checked), sum.Elapsed, s.checksPerSecond())
	log.Debug().Msgf("compromised: %s, failed: %s. Average response time %.2f ms",
		p.Sprintf("%d", sum.Compromised), p.Sprintf("%d", sum.Failed), requestAverage)

	return sum
}
