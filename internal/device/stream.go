package device

import "sync"

// Stream is an ordered sequence of tasks executed by a single worker
// goroutine. Tasks submitted to one stream run in submission order; tasks on
// different streams may run concurrently.
type Stream struct {
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewStream creates a stream and starts its worker.
func NewStream() *Stream {
	s := &Stream{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Submit enqueues a task on the stream.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize blocks until all submitted tasks have completed.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Close drains the stream and stops its worker. The stream must not be used
// after Close.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.wg.Wait()
		close(s.tasks)
		<-s.done
	})
}
