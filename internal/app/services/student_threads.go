package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yigit/hogwarts/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const printedNamesLimit = 6

// NamePrinter writes student names one at a time with a pause before each,
// to make interleaving between goroutines visible in the log.
type NamePrinter struct {
	delay time.Duration
	print func(name string)
	mu    sync.Mutex
}

// NewNamePrinter returns a printer that waits delay before each name.
// A nil print func writes names to the log.
func NewNamePrinter(delay time.Duration, print func(name string)) *NamePrinter {
	if print == nil {
		print = func(name string) { logger.Info().Msg(name) }
	}
	return &NamePrinter{delay: delay, print: print}
}

func (p *NamePrinter) printName(ctx context.Context, name string) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	p.print(name)
	return nil
}

func (p *NamePrinter) printNameSync(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printName(ctx, name)
}

func (p *NamePrinter) printAll(ctx context.Context, names []string, serialized bool) error {
	for _, name := range names {
		var err error
		if serialized {
			err = p.printNameSync(ctx, name)
		} else {
			err = p.printName(ctx, name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// chunk returns names[from:to] clamped to the slice length.
func chunk(names []string, from, to int) []string {
	if from > len(names) {
		from = len(names)
	}
	if to > len(names) {
		to = len(names)
	}
	return names[from:to]
}

func (s *studentServiceImpl) printableNames(ctx context.Context) ([]string, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}

	names := make([]string, 0, printedNamesLimit)
	for _, st := range students {
		if len(names) == printedNamesLimit {
			break
		}
		names = append(names, st.Name)
	}
	logger.Info().Strs("names", names).Msg("Students picked for printing")
	return names, nil
}

// PrintStudentNamesParallel prints the first two names in the caller and the
// next four from two goroutines it does not wait for.
func (s *studentServiceImpl) PrintStudentNamesParallel(ctx context.Context) error {
	names, err := s.printableNames(ctx)
	if err != nil {
		return err
	}

	if err := s.printer.printAll(ctx, chunk(names, 0, 2), false); err != nil {
		return err
	}

	// detached from the request on purpose, the output arrives after the response
	for _, part := range [][]string{chunk(names, 2, 4), chunk(names, 4, 6)} {
		go func(part []string) {
			_ = s.printer.printAll(context.Background(), part, false)
		}(part)
	}
	return nil
}

// PrintStudentNamesSynchronized prints the same names, one at a time across
// all goroutines, and returns once everything is printed.
func (s *studentServiceImpl) PrintStudentNamesSynchronized(ctx context.Context) error {
	names, err := s.printableNames(ctx)
	if err != nil {
		return err
	}

	if err := s.printer.printAll(ctx, chunk(names, 0, 2), true); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range [][]string{chunk(names, 2, 4), chunk(names, 4, 6)} {
		part := part
		g.Go(func() error {
			return s.printer.printAll(gctx, part, true)
		})
	}
	return g.Wait()
}
