package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const sumUpperBound = 1_000_000

// InfoService reports runtime details of the running instance.
type InfoService interface {
	Port() int
	// CompareSums sums 1..1_000_000 sequentially and in parallel and reports
	// both results with their timings.
	CompareSums(ctx context.Context) (string, error)
}

type infoServiceImpl struct {
	port    int
	workers int
}

// NewInfoService creates a new info service instance
func NewInfoService(port int) InfoService {
	return &infoServiceImpl{port: port, workers: runtime.GOMAXPROCS(0)}
}

func (s *infoServiceImpl) Port() int {
	return s.port
}

func sequentialSum(n int64) int64 {
	var sum int64
	for i := int64(1); i <= n; i++ {
		sum += i
	}
	return sum
}

// parallelSum splits 1..n into one contiguous range per worker.
func parallelSum(ctx context.Context, n int64, workers int) (int64, error) {
	if workers < 1 {
		workers = 1
	}
	partial := make([]int64, workers)
	step := (n + int64(workers) - 1) / int64(workers)

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			from := int64(w)*step + 1
			to := from + step - 1
			if to > n {
				to = n
			}
			var sum int64
			for i := from; i <= to; i++ {
				sum += i
			}
			partial[w] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total int64
	for _, p := range partial {
		total += p
	}
	return total, nil
}

func (s *infoServiceImpl) CompareSums(ctx context.Context) (string, error) {
	start := time.Now()
	sum := sequentialSum(sumUpperBound)
	seqTook := time.Since(start)

	start = time.Now()
	sumParallel, err := parallelSum(ctx, sumUpperBound, s.workers)
	if err != nil {
		return "", err
	}
	parTook := time.Since(start)

	return fmt.Sprintf("Sum: %d; Time: %dms | SumImpr: %d; Time: %dms",
		sum, seqTook.Milliseconds(), sumParallel, parTook.Milliseconds()), nil
}
