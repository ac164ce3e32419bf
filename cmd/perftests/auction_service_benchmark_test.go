package perftests

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// Benchmark 1: PlaceBid - Isolated Auctions (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	svc, ids := setupService(b, 100, b.N)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		amount := strconv.Itoa(51 + rand.Intn(100))
		if _, err := svc.PlaceBid(ctx, ids[i], bidderID(i, 100), amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Auction (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedAuction(b *testing.B) {
	svc, ids := setupService(b, 1000, 1)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			next := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			// losing the race to a higher bid is expected here
			_, _ = svc.PlaceBid(ctx, ids[0], bidderID(rnd.Int(), 1000), strconv.FormatInt(next, 10))
		}
	})
}

// Benchmark 3: HighestBid - Single - Threaded (Low Contention)
func Benchmark_HighestBid_SingleThreaded(b *testing.B) {
	svc, ids := setupService(b, 10, b.N)
	ctx := context.Background()

	for i, id := range ids {
		for j := 0; j < 10; j++ {
			_, _ = svc.PlaceBid(ctx, id, bidderID(i+j, 10), strconv.Itoa(60+j*10))
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.HighestBid(ctx, ids[i]); err != nil {
			b.Fatalf("failed to get highest bid: %v", err)
		}
	}
}

// Benchmark 4: HighestBid - Concurrent (High Contention)
func Benchmark_HighestBid_ConcurrentSharedAuction(b *testing.B) {
	svc, ids := setupService(b, 100, 1)
	ctx := context.Background()

	for j := 0; j < 100; j++ {
		_, _ = svc.PlaceBid(ctx, ids[0], bidderID(j, 100), strconv.Itoa(51+j))
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.HighestBid(ctx, ids[0]); err != nil {
				b.Errorf("failed to get highest bid: %v", err)
				return
			}
		}
	})
}

// Benchmark 5: Eager settlement of auctions with a deep ledger
func Benchmark_EagerSettlement(b *testing.B) {
	const perRound = 20
	svc, ids := setupService(b, 50, perRound*b.N)
	ctx := context.Background()

	for i, id := range ids {
		for j := 0; j < 25; j++ {
			_, _ = svc.PlaceBid(ctx, id, bidderID(i+j, 50), strconv.Itoa(51+j))
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	end := time.Now().UTC()
	for i := 0; i < b.N; i++ {
		for _, id := range ids[i*perRound : (i+1)*perRound] {
			if _, err := svc.UpdateAuction(ctx, id, benchOwner, endAt(end)); err != nil {
				b.Fatalf("failed to settle auction %d: %v", id, err)
			}
		}
	}
}
