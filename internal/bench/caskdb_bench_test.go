package bench

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"caskdb"
)

func setupBenchDB(b *testing.B) (*caskdb.DB, func()) {
	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("caskdb_bench_%d", rand.Int63()))
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		b.Fatalf("Failed to create bench dir: %v", err)
	}

	db, err := caskdb.Open(filepath.Join(tmpDir, "bench.db"), nil)
	if err != nil {
		b.Fatalf("Failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func generateKey(i int) string {
	return fmt.Sprintf("key_%010d", i)
}

func generateValue(size int) string {
	value := make([]byte, size)
	for i := range value {
		value[i] = byte('a' + rand.Intn(26))
	}
	return string(value)
}

func BenchmarkSet(b *testing.B) {
	db, cleanup := setupBenchDB(b)
	defer cleanup()

	value := generateValue(1024)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := db.Set(generateKey(i), value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}

func BenchmarkGet(b *testing.B) {
	db, cleanup := setupBenchDB(b)
	defer cleanup()

	// Pre-populate
	value := generateValue(1024)
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		if err := db.Set(generateKey(i), value); err != nil {
			b.Fatalf("Pre-populate set failed: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, found, err := db.Get(generateKey(i % numKeys))
		if err != nil {
			b.Fatalf("Get failed: %v", err)
		}
		if !found {
			b.Fatalf("key not found")
		}
	}
}

func BenchmarkRandomGet(b *testing.B) {
	db, cleanup := setupBenchDB(b)
	defer cleanup()

	// Pre-populate
	value := generateValue(1024)
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		if err := db.Set(generateKey(i), value); err != nil {
			b.Fatalf("Pre-populate set failed: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, found, err := db.Get(generateKey(rand.Intn(numKeys)))
		if err != nil {
			b.Fatalf("Get failed: %v", err)
		}
		if !found {
			b.Fatalf("key not found")
		}
	}
}

func BenchmarkOpenWithExistingLog(b *testing.B) {
	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("caskdb_bench_%d", rand.Int63()))
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		b.Fatalf("Failed to create bench dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "bench.db")
	db, err := caskdb.Open(path, nil)
	if err != nil {
		b.Fatalf("Failed to open database: %v", err)
	}

	value := generateValue(256)
	for i := 0; i < 10000; i++ {
		if err := db.Set(generateKey(i), value); err != nil {
			b.Fatalf("Pre-populate set failed: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		b.Fatalf("Close failed: %v", err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		db, err := caskdb.Open(path, nil)
		if err != nil {
			b.Fatalf("Open failed: %v", err)
		}
		if err := db.Close(); err != nil {
			b.Fatalf("Close failed: %v", err)
		}
	}
}
