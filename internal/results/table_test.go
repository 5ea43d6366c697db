package results

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/task"
)

var names = []string{"mirror", "packages", "prune", "orphans", "cache", "docker", "toolchain"}

func TestNewTable(t *testing.T) {
	table := NewTable(names)

	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
	if table.Complete() {
		t.Error("empty table should not be complete")
	}
	if got := table.Missing(); !slices.Equal(got, names) {
		t.Errorf("Missing() = %v, want %v", got, names)
	}
	if got := table.Names(); !slices.Equal(got, names) {
		t.Errorf("Names() = %v", got)
	}

	dup := NewTable([]string{"a", "b", "a"})
	if got := dup.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("duplicate names should collapse, got %v", got)
	}
}

func TestRecord(t *testing.T) {
	table := NewTable(names)

	if err := table.Record("docker", task.Success("Docker", "docker objects pruned")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, ok := table.Get("docker")
	if !ok || got.Message != "docker objects pruned" {
		t.Errorf("Get(docker) = %+v, %v", got, ok)
	}

	t.Run("second write rejected", func(t *testing.T) {
		err := table.Record("docker", task.Failure("Docker", "overwrite"))
		if !errors.Is(err, errors.ErrAlreadyRecorded) {
			t.Errorf("Record() error = %v, want ErrAlreadyRecorded", err)
		}
		if got, _ := table.Get("docker"); got.Message != "docker objects pruned" {
			t.Errorf("entry was overwritten: %+v", got)
		}
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		err := table.Record("flatpak", task.Success("Flatpak", ""))
		if !errors.Is(err, errors.ErrUnknownTask) {
			t.Errorf("Record() error = %v, want ErrUnknownTask", err)
		}
		if _, ok := table.Get("flatpak"); ok {
			t.Error("unknown name should not be stored")
		}
	})

	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestRowsKeepKeyOrder(t *testing.T) {
	table := NewTable(names)

	// Record in reverse to show that completion order does not matter.
	for i := len(names) - 1; i >= 0; i-- {
		if i == 3 {
			continue
		}
		outcome := task.Success(names[i], "")
		if i%2 == 0 {
			outcome = task.Failure(names[i], "")
		}
		if err := table.Record(names[i], outcome); err != nil {
			t.Fatalf("Record(%s) error = %v", names[i], err)
		}
	}

	rows := table.Rows()
	if len(rows) != len(names) {
		t.Fatalf("len(Rows()) = %d, want %d", len(rows), len(names))
	}
	for i, row := range rows {
		if row.Name != names[i] {
			t.Errorf("row %d = %s, want %s", i, row.Name, names[i])
		}
		if row.Recorded != (i != 3) {
			t.Errorf("row %s Recorded = %v", row.Name, row.Recorded)
		}
	}

	if got := table.Missing(); !slices.Equal(got, []string{"orphans"}) {
		t.Errorf("Missing() = %v, want [orphans]", got)
	}
	if got := table.Failures(); got != 4 {
		t.Errorf("Failures() = %d, want 4", got)
	}
}

func TestConcurrentRecord(t *testing.T) {
	const writers = 64

	for round := 0; round < 20; round++ {
		keys := make([]string, writers)
		for i := range keys {
			keys[i] = fmt.Sprintf("task-%02d", i)
		}
		table := NewTable(keys)

		var wg sync.WaitGroup
		errs := make(chan error, writers*2)
		for _, key := range keys {
			key := key
			wg.Add(2)
			go func() {
				defer wg.Done()
				errs <- table.Record(key, task.Success(key, "done"))
			}()
			go func() {
				defer wg.Done()
				_, _ = table.Get(key)
				_ = table.Rows()
				_ = table.Complete()
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Errorf("round %d: Record() error = %v", round, err)
			}
		}
		if !table.Complete() {
			t.Fatalf("round %d: table incomplete, missing %v", round, table.Missing())
		}
	}
}

func TestConcurrentDuplicateRecord(t *testing.T) {
	table := NewTable([]string{"docker"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if table.Record("docker", task.Success("Docker", fmt.Sprint(i))) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted writes = %d, want exactly 1", accepted)
	}
}
