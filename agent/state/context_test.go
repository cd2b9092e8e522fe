package state

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewCareerContextDedupesSkills(t *testing.T) {
	t.Parallel()

	c := NewCareerContext("user-1", []string{"Python", " Git ", "python", "", "SQL"})
	got := c.Skills()
	want := []string{"Python", "Git", "SQL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Skills() = %v, want %v", got, want)
	}
}

func TestReplaceSkillsSwapsWholeList(t *testing.T) {
	t.Parallel()

	c := NewCareerContext("user-1", []string{"Python", "Git"})
	c.ReplaceSkills([]string{"SQL", "Statistics", "sql"})

	got := c.Skills()
	want := []string{"SQL", "Statistics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Skills() = %v, want %v", got, want)
	}
}

func TestSkillsReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewCareerContext("user-1", []string{"Python"})
	skills := c.Skills()
	skills[0] = "mutated"

	if got := c.Skills()[0]; got != "Python" {
		t.Fatalf("context skills mutated through returned slice: %q", got)
	}
}

func TestSnapshotIsImmutableView(t *testing.T) {
	t.Parallel()

	c := NewCareerContext("user-1", []string{"Python", "Git"})
	snap := c.Snapshot()
	if snap.UserID != "user-1" {
		t.Fatalf("unexpected snapshot user: %q", snap.UserID)
	}

	snap.Skills[0] = "mutated"
	c.ReplaceSkills([]string{"SQL"})

	if got := snap.Skills[1]; got != "Git" {
		t.Fatalf("snapshot changed after ReplaceSkills: %q", got)
	}
	if got := c.Skills(); !reflect.DeepEqual(got, []string{"SQL"}) {
		t.Fatalf("Skills() = %v, want [SQL]", got)
	}
}

func TestReplaceSkillsConcurrentReaders(t *testing.T) {
	t.Parallel()

	c := NewCareerContext("user-1", []string{"Python"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.ReplaceSkills([]string{"SQL", "Statistics"})
		}()
		go func() {
			defer wg.Done()
			// Any observed list must be a complete replacement, never a blend.
			got := c.Skills()
			if len(got) != 1 && len(got) != 2 {
				t.Errorf("observed partial skill list: %v", got)
			}
		}()
	}
	wg.Wait()
}
