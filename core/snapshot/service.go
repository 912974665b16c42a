// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package snapshot

import (
	"context"
	"errors"
	"sync"

	"code.vegaprotocol.io/coresync/core/catchup"
	"code.vegaprotocol.io/coresync/logging"

	"github.com/cenkalti/backoff/v4"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/downloader_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot Downloader
type Downloader interface {
	DownloadSnapshot(ctx context.Context, provider catchup.AddressProvider) error
}

// Applier applies the commands of the consensus log to the state machines.
// It is paused while a download runs.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/applier_mock.go -package mocks code.vegaprotocol.io/coresync/core/snapshot Applier
type Applier interface {
	Pause()
	Resume()
}

// Job is a scheduled download.
type Job struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Done is closed once the job has completed.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the outcome of the job once it is done.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Wait blocks until the job completes, or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Service runs downloads in the background, attempting them again with an
// exponential backoff until they succeed.
type Service struct {
	Config

	log        *logging.Logger
	downloader Downloader
	applier    Applier

	mu  sync.Mutex
	job *Job
}

func NewService(log *logging.Logger, config Config, downloader Downloader, applier Applier) *Service {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Service{
		Config:     config,
		log:        log,
		downloader: downloader,
		applier:    applier,
	}
}

// ScheduleDownload starts a download job, unless one is already running in
// which case that one is returned.
func (s *Service) ScheduleDownload(ctx context.Context, provider catchup.AddressProvider) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil {
		select {
		case <-s.job.done:
		default:
			return s.job
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	job := &Job{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s.job = job

	go func() {
		defer close(job.done)
		defer cancel()
		job.err = s.run(ctx, provider)
	}()
	return job
}

func (s *Service) run(ctx context.Context, provider catchup.AddressProvider) error {
	s.applier.Pause()
	defer s.applier.Resume()

	attempt := 0
	op := func() error {
		attempt++
		err := s.downloader.DownloadSnapshot(ctx, provider)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrStoreMismatch) {
			return backoff.Permanent(err)
		}
		s.log.Warn("core state download attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(err))
		// try another peer next time, when there is one.
		if r, ok := provider.(interface{ Next() }); ok {
			r.Next()
		}
		return err
	}

	policy := s.newBackOff()
	err := backoff.Retry(op, backoff.WithContext(policy, ctx))
	if err != nil {
		s.log.Error("core state download given up",
			logging.Int("attempts", attempt),
			logging.Error(err))
		return err
	}
	s.log.Info("core state downloaded", logging.Int("attempts", attempt))
	return nil
}

// ReloadConf updates the internal configuration of the service. Running
// jobs keep the retry policy they started with.
func (s *Service) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}

	s.mu.Lock()
	s.Config = cfg
	s.mu.Unlock()
}

func (s *Service) newBackOff() backoff.BackOff {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.InitialInterval.Get()
	b.MaxInterval = s.MaxInterval.Get()
	b.MaxElapsedTime = s.MaxElapsed.Get()
	return backoff.WithMaxRetries(b, uint64(s.RetryLimit))
}

// Stop cancels the running job, if any, and waits for it to return.
func (s *Service) Stop() {
	s.mu.Lock()
	job := s.job
	s.mu.Unlock()

	if job == nil {
		return
	}
	job.cancel()
	<-job.done
}
