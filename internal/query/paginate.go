package query

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Paginate runs the total count and the bounded fetch concurrently
// against the already-filtered query and joins both before returning.
// Either failure fails the whole operation. dest must be a pointer to a
// slice of the queried model.
func Paginate(ctx context.Context, db *gorm.DB, p Pagination, s Sort, dest interface{}) (Meta, error) {
	countDB := db.Session(&gorm.Session{})
	findDB := db.Session(&gorm.Session{})

	var (
		total    int64
		countErr error
		findErr  error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		countErr = countDB.WithContext(ctx).Count(&total).Error
	}()
	go func() {
		defer wg.Done()
		findErr = findDB.WithContext(ctx).
			Order(s.Clause()).
			Limit(p.Limit).
			Offset(p.Skip).
			Find(dest).Error
	}()
	wg.Wait()

	if countErr != nil {
		return Meta{}, countErr
	}
	if findErr != nil {
		return Meta{}, findErr
	}

	return BuildMeta(p, total), nil
}
