package calculator

import (
	"context"
	"sync"
	"time"
)

// executor is a fixed pool of workers fed with index ranges. One batch is
// in flight at a time; dispatchTask returns once every range has been
// processed, which gives the per-radius barrier.
type executor struct {
	workers      int
	dispatchChan chan task
	once         sync.Once
}

type task struct {
	start int
	end   int

	ctx  context.Context
	fn   func(i int)
	done *sync.WaitGroup
}

func newExecutor(workers int) *executor {
	if workers < 1 {
		workers = 1
	}
	return &executor{
		workers:      workers,
		dispatchChan: make(chan task, workers*2),
	}
}

func (e *executor) run() {
	for i := 0; i < e.workers; i++ {
		go func() {
			for t := range e.dispatchChan {
				for j := t.start; j < t.end; j++ {
					if t.ctx.Err() != nil {
						break
					}
					t.fn(j)
				}
				t.done.Done()
			}
		}()
	}
}

func (e *executor) close() {
	e.once.Do(func() { close(e.dispatchChan) })
}

// dispatchTask runs fn for every index of [0, total) and waits for the
// batch. Indices not yet started when ctx is cancelled are skipped.
func (e *executor) dispatchTask(ctx context.Context, total int, fn func(i int)) time.Duration {
	start := time.Now()
	tasks := split(total, e.workers)
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, t := range tasks {
		t.ctx, t.fn, t.done = ctx, fn, &wg
		e.dispatchChan <- t
	}
	wg.Wait()
	return time.Since(start)
}

// split cuts [0, total) into contiguous ranges. With at least two indices per
// worker every worker share is halved so that about 2·workers ranges are
// queued, the remainder goes out one index at a time.
func split(total, workers int) []task {
	if total <= 0 {
		return nil
	}
	taskLen, remainder := total/workers, total%workers
	tasks := make([]task, 0, workers*2+remainder)

	start := 0
	if taskLen == 1 {
		for start < total-remainder {
			tasks = append(tasks, task{start: start, end: start + 1})
			start++
		}
	} else if taskLen > 1 {
		half1, half2 := taskLen/2, taskLen/2
		if taskLen%2 == 1 {
			half2++
		}
		for start < total-remainder {
			tasks = append(tasks, task{start: start, end: start + half1})
			start += half1
			tasks = append(tasks, task{start: start, end: start + half2})
			start += half2
		}
	}

	for i := 0; i < remainder; i++ {
		tasks = append(tasks, task{start: start, end: start + 1})
		start++
	}
	return tasks
}
