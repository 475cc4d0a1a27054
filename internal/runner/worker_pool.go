package runner

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// WorkerPool manages parallel trial execution. Each trial owns its engine and
// random stream, so workers share nothing but the queues.
type WorkerPool struct {
	workerCount int
	options     Options
	jobQueue    chan TrialJob
	resultQueue chan TrialResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// TrialJob represents a single trial task
type TrialJob struct {
	Config TrialConfig
}

// NewWorkerPool creates a new worker pool for parallel trials
func NewWorkerPool(ctx context.Context, workerCount int, jobBufferSize int, options Options) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		options:     options,
		jobQueue:    make(chan TrialJob, jobBufferSize),
		resultQueue: make(chan TrialResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob submits a trial job to the pool
func (wp *WorkerPool) SubmitJob(job TrialJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan TrialResult {
	return wp.resultQueue
}

// worker processes trial jobs
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return // Channel closed, worker should exit
			}

			result := RunTrial(wp.ctx, job.Config, wp.options)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

// RunTrials runs every trial on a pool of workers and returns the results in input order.
// Trial IDs must be unique.
// Trials that fail carry their error in TrialResult.Error; the returned error is only set
// when ctx is cancelled before every result was collected.
func RunTrials(ctx context.Context, trials []TrialConfig, workers int, options Options, progress *ProgressTracker) ([]TrialResult, error) {
	if len(trials) == 0 {
		return nil, nil
	}

	pool := NewWorkerPool(ctx, min(workers, len(trials)), len(trials), options)
	pool.Start()
	defer pool.Stop()

	index := make(map[string]int, len(trials))
	for i, tc := range trials {
		index[tc.ID] = i
		if err := pool.SubmitJob(TrialJob{Config: tc}); err != nil {
			return nil, err
		}
	}

	results := make([]TrialResult, len(trials))
	for collected := 0; collected < len(trials); collected++ {
		select {
		case result := <-pool.GetResults():
			results[index[result.ID]] = result
			if progress != nil {
				progress.Increment()
			}
			if options.OnTrialDone != nil {
				options.OnTrialDone(result)
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return results, nil
}

// ProgressTracker tracks the progress of a batch of trials
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		completed: 0,
		startTime: time.Now(),
	}
}

// Increment increments the completion count
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns the current progress
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := 0.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, progress, elapsed
}

// EstimateTimeRemaining estimates the remaining time based on current progress
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgTimePerItem := elapsed / time.Duration(pt.completed)
	remaining := pt.total - pt.completed

	return avgTimePerItem * time.Duration(remaining)
}
