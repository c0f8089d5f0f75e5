package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/models"
)

type workRequest struct {
	fn     models.Work[any]
	c      chan models.Result[any]
	ctx    context.Context
	cancel context.CancelFunc
}

// Scheduler runs units of work on a bounded pool of workers.
// Work submitted while every worker is busy is queued in FIFO order.
type Scheduler struct {
	idle       int
	workQueue  *models.Queue[workRequest]
	close      chan any
	stopped    chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	closeOnce  sync.Once
	running    sync.WaitGroup
}

func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		idle:       nbWorkers,
		workQueue:  &models.Queue[workRequest]{},
		close:      make(chan any),
		stopped:    make(chan any),
		done:       make(chan any),
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// AddWork submits w and returns a future resolved with its result.
// The future always receives exactly one result, even when nobody reads it.
func (s *Scheduler) AddWork(w models.Work[any]) *models.Future[models.Result[any]] {
	c := make(chan models.Result[any], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case s.work <- workRequest{fn: w, c: c, ctx: ctx, cancel: cancel}:
	case <-s.mainCtx.Done():
		cancel()
		c <- models.Result[any]{Err: context.Canceled}
	}

	return models.NewFuture[models.Result[any]](c, cancel)
}

// Close cancels all running work, drops queued work and waits for the workers to return.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.mainCancel()
		close(s.close)
		<-s.stopped
		s.running.Wait()
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
			if s.idle == 0 || s.mainCtx.Err() != nil {
				continue
			}
			s.dispatch(s.workQueue.Pop())
		case <-s.done:
			s.idle++

			if s.workQueue.Len() == 0 || s.mainCtx.Err() != nil {
				continue
			}
			s.dispatch(s.workQueue.Pop())
		case <-s.close:
			for s.workQueue.Len() > 0 {
				r := s.workQueue.Pop()
				r.cancel()
				r.c <- models.Result[any]{Err: context.Canceled}
			}
			return
		}
	}
}

func (s *Scheduler) dispatch(r workRequest) {
	s.idle--
	s.running.Add(1)

	go func() {
		defer s.running.Done()

		v, err := execute(r)
		r.c <- models.Result[any]{Data: v, Err: err}
		r.cancel()

		select {
		case s.done <- struct{}{}:
		case <-s.stopped:
		}
	}()
}

func execute(r workRequest) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "panic", p)
			err = fmt.Errorf("work panicked: %v", p)
		}
	}()

	return r.fn(r.ctx)
}
