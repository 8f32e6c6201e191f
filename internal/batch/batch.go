// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package batch checks a list of passwords against the breach API with a
// bounded pool of workers.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"github.com/passwordping/passwordping-go/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
	"io"
	"runtime"
	"sync"
	"time"
)

// Checker is the part of passwordping.Client a Runner needs.
type Checker interface {
	CheckPassword(ctx context.Context, password string) (bool, error)
}

type Summary struct {
	Checked     uint64
	Compromised uint64
	Failed      uint64
	Elapsed     time.Duration
}

type Runner struct {
	checker     Checker
	out         io.Writer
	mu          sync.Mutex
	parallelism int
	rate        int
	interval    time.Duration
	stat        *status
}

type job struct {
	ctx      context.Context
	line     int
	password string
}

// NewRunner writes one result line per checked password to out. threads below
// one selects twice the number of logical processors; rate caps requests per
// second, zero meaning unlimited.
func NewRunner(checker Checker, out io.Writer, threads, rate int) *Runner {
	return &Runner{
		checker:     checker,
		out:         out,
		parallelism: threads,
		rate:        rate,
		interval:    10 * time.Second,
	}
}

// Process checks every non-empty line of in. Passwords are never echoed; a
// result line names the input line number only. Failed checks are counted and
// reported, they do not stop the batch.
func (r *Runner) Process(ctx context.Context, in io.Reader) (Summary, error) {
	s := util.Stats()
	defer s()

	threads := r.parallelism
	if threads < 1 {
		threads = runtime.NumCPU() * 2
	}

	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: r.rate,
		QueueSize:     2 * threads,
		NumWorkers:    threads,
	})
	if err != nil {
		return Summary{}, err
	}
	defer tasks.Close()

	log.Info().Msgf("checking passwords with %d threads, ^C to stop the process", threads)
	r.stat = newStatus(r.interval)
	r.stat.BeginProgress()

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		password := scanner.Text()
		if password == "" {
			continue
		}

		if ctx.Err() != nil {
			break
		}

		if err = tasks.Publish(r.check, job{ctx: ctx, line: line, password: password}); err != nil {
			tasks.Wait()
			r.stat.Done()
			return Summary{}, fmt.Errorf("queueing line %d: %w", line, err)
		}
	}

	tasks.Wait()
	sum := r.stat.Done()

	if err = scanner.Err(); err != nil {
		return sum, fmt.Errorf("reading passwords: %w", err)
	}

	return sum, ctx.Err()
}

func (r *Runner) check(j job) {
	start := time.Now()
	compromised, err := r.checker.CheckPassword(j.ctx, j.password)
	if err != nil {
		r.stat.Failed()
		log.Debug().Err(err).Int("line", j.line).Msg("password check failed")
		r.write("line %d: error: %s\n", j.line, err)
		return
	}

	r.stat.Checked(compromised, time.Since(start).Milliseconds())
	if compromised {
		r.write("line %d: compromised\n", j.line)
	} else {
		r.write("line %d: ok\n", j.line)
	}
}

func (r *Runner) write(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		log.Error().Err(err).Msg("error writing batch result")
	}
}
