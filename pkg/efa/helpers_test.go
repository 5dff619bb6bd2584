package efa

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type recordedRequest struct {
	Endpoint string
	Params   Params
}

// stubRequester answers every request with a canned body or error
type stubRequester struct {
	mutex    sync.Mutex
	requests []recordedRequest

	Body string
	Err  error
}

func (s *stubRequester) Request(ctx context.Context, endpoint string, params Params, target interface{}) error {
	s.mutex.Lock()
	s.requests = append(s.requests, recordedRequest{Endpoint: endpoint, Params: params})
	s.mutex.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if err := json.Unmarshal([]byte(s.Body), target); err != nil {
		return NewInternalError(err)
	}

	return nil
}

func (s *stubRequester) Requests() []recordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]recordedRequest{}, s.requests...)
}

type manualTimer struct {
	task    func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualScheduler only runs tasks when Fire is called
type manualScheduler struct {
	mutex  sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	timer := &manualTimer{task: f, delay: d}
	s.timers = append(s.timers, timer)

	return timer
}

// Fire runs every timer that has not been stopped yet
func (s *manualScheduler) Fire() int {
	s.mutex.Lock()
	timers := append([]*manualTimer{}, s.timers...)
	s.mutex.Unlock()

	ran := 0
	for _, timer := range timers {
		if timer.stopped || timer.fired {
			continue
		}
		timer.fired = true
		timer.task()
		ran++
	}

	return ran
}

func (s *manualScheduler) Timers() []*manualTimer {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]*manualTimer{}, s.timers...)
}
