package storage

import (
	"fmt"
	"testing"
	"time"
)

// createBenchStorage creates a storage instance for benchmarks
func createBenchStorage(b *testing.B) *Storage {
	b.Helper()
	store, err := New(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create bench storage: %v", err)
	}
	return store
}

// BenchmarkAddTask measures task creation performance
func BenchmarkAddTask(b *testing.B) {
	store := createBenchStorage(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := store.AddTask(fmt.Sprintf("Task %d", i), "", "Work", "2026-02-01", StatusPending)
		if err != nil {
			b.Fatalf("AddTask failed: %v", err)
		}
	}
}

// BenchmarkLoadTasks measures task loading performance with varying sizes
func BenchmarkLoadTasks(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			store := createBenchStorage(b)

			tasks := make([]Task, size)
			for i := range tasks {
				tasks[i] = Task{
					ID:        fmt.Sprintf("t_%d", i),
					Title:     fmt.Sprintf("Task %d", i),
					Category:  "Work",
					DueDate:   "2026-02-01",
					Status:    StatusPending,
					CreatedAt: time.Now(),
					Order:     i + 1,
				}
			}
			if err := store.SaveTasks(tasks); err != nil {
				b.Fatalf("SaveTasks failed: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := store.LoadTasks()
				if err != nil {
					b.Fatalf("LoadTasks failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkToggleTask measures toggle performance
func BenchmarkToggleTask(b *testing.B) {
	store := createBenchStorage(b)

	ids := make([]string, b.N)
	for i := 0; i < b.N; i++ {
		task, _ := store.AddTask(fmt.Sprintf("Task %d", i), "", "Work", "2026-02-01", StatusPending)
		ids[i] = task.ID
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ToggleTask(ids[i]); err != nil {
			b.Fatalf("ToggleTask failed: %v", err)
		}
	}
}

// BenchmarkImportTasks measures bulk merge performance
func BenchmarkImportTasks(b *testing.B) {
	sizes := []int{10, 100}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			incoming := make([]Task, size)
			for i := range incoming {
				incoming[i] = Task{
					Title:    fmt.Sprintf("Imported %d", i),
					Category: "Work",
					DueDate:  "2026-02-01",
					Status:   StatusPending,
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				store := createBenchStorage(b)
				b.StartTimer()

				if _, err := store.ImportTasks(incoming); err != nil {
					b.Fatalf("ImportTasks failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkConcurrentReads measures read performance under concurrent access
func BenchmarkConcurrentReads(b *testing.B) {
	store := createBenchStorage(b)

	for i := 0; i < 100; i++ {
		store.AddTask(fmt.Sprintf("Task %d", i), "", "Work", "2026-02-01", StatusPending)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = store.LoadTasks()
			_, _ = store.LoadCategories()
		}
	})
}
