package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
)

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	_, port := startMySQLContainer(t)
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", port)
	t.Setenv("DB_NAME", "udhaar_pos_test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := config.ConnectDatabaseWithRetry(ctx); err != nil {
		t.Fatalf("ConnectDatabaseWithRetry: %v", err)
	}
	store := NewGormStore(config.GetDB(), "IN")
	if err := store.MigrateTable(ctx); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}
	if err := SeedManager(ctx, store, DemoProducts(), DemoCustomers()); err != nil {
		t.Fatalf("SeedManager: %v", err)
	}
	return store
}

func TestGormStore_Integration(t *testing.T) {
	requireIntegration(t)
	store := setupGormStore(t)
	ctx := context.Background()

	t.Run("conditional decrement", func(t *testing.T) {
		if err := store.DecrementStock(ctx, "3", 2); err != nil {
			t.Fatalf("DecrementStock: %v", err)
		}
		err := store.DecrementStock(ctx, "3", 5)
		var insufficient *models.InsufficientStockError
		if !errors.As(err, &insufficient) || insufficient.Available != 1 {
			t.Fatalf("expected insufficient stock with 1 left, got %v", err)
		}
		if err := store.RestoreStock(ctx, "3", 2); err != nil {
			t.Fatalf("RestoreStock: %v", err)
		}
		if p, _ := store.GetProduct(ctx, "3"); p.Stock != 3 {
			t.Fatalf("expected stock 3, got %d", p.Stock)
		}
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		errStop := errors.New("stop")
		err := store.Transact(ctx, func(w Writer) error {
			if err := w.DecrementStock(ctx, "1", 5); err != nil {
				return err
			}
			if err := w.IncreaseCredit(ctx, "2", decimal.NewFromInt(100)); err != nil {
				return err
			}
			return errStop
		})
		if !errors.Is(err, errStop) {
			t.Fatalf("expected errStop, got %v", err)
		}
		if p, _ := store.GetProduct(ctx, "1"); p.Stock != 15 {
			t.Fatalf("rolled back decrement is visible: stock %d", p.Stock)
		}
		if c, _ := store.GetCustomer(ctx, "2"); !c.Udhaar.IsZero() {
			t.Fatalf("rolled back credit is visible: udhaar %s", c.Udhaar)
		}
	})

	t.Run("concurrent decrements", func(t *testing.T) {
		var wg sync.WaitGroup
		var mu sync.Mutex
		ok := 0
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.DecrementStock(ctx, "1", 1); err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if p, _ := store.GetProduct(ctx, "1"); ok != 15 || p.Stock != 0 {
			t.Fatalf("expected 15 sales and stock 0, got %d and %d", ok, p.Stock)
		}
	})

	t.Run("zero low-stock threshold", func(t *testing.T) {
		checkZeroThreshold(t, store, "ZT")
	})

	t.Run("duplicates and settlement", func(t *testing.T) {
		_, err := store.CreateProduct(ctx, &models.NewProduct{Name: "Copy", Sku: "lap-001", Price: decimal.NewFromInt(1)})
		if !errors.Is(err, models.ErrDuplicate) {
			t.Fatalf("expected duplicate sku, got %v", err)
		}
		if _, err := store.SettleCredit(ctx, "1", decimal.NewFromInt(6000)); !errors.Is(err, models.ErrOverSettlement) {
			t.Fatalf("expected ErrOverSettlement, got %v", err)
		}
		c, err := store.SettleCredit(ctx, "1", decimal.NewFromInt(1000))
		if err != nil || !c.Udhaar.Equal(decimal.NewFromInt(4000)) {
			t.Fatalf("expected udhaar 4000, got %v (err %v)", c, err)
		}
	})
}

func TestRedisLocker_Integration(t *testing.T) {
	requireIntegration(t)
	_, port := startRedisContainer(t)
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", port))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := config.ConnectRedisWithRetry(ctx); err != nil {
		t.Fatalf("ConnectRedisWithRetry: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseRedis() })

	locker := NewRedisLocker(config.GetRedisLock(), 5*time.Second)
	unlock, err := locker.Lock(ctx, []string{"2", "1", "2"})
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	contender := NewRedisLocker(config.GetRedisLock(), 5*time.Second)
	contender.retry = nil
	if _, err := contender.Lock(ctx, []string{"1"}); !errors.Is(err, ErrStockLockBusy) {
		t.Fatalf("expected ErrStockLockBusy while held, got %v", err)
	}

	unlock()
	again, err := contender.Lock(ctx, []string{"1", "2"})
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}
