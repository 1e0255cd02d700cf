package calculator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runIndexed 以有限并发处理每个元素，结果按输入下标写回
//
// workers <= 0 时不限并发。任一元素出错或 ctx 取消时其余未开始的元素不再处理。
func runIndexed[T any, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range items {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, items[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
