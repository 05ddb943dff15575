package domain

import (
	"fmt"
	"sort"
)

// MaxDependencies caps how many direct dependencies one todo may declare.
const MaxDependencies = 100

// DependencySet is an immutable set of TodoIDs a todo depends on.
// Every mutation returns a new instance; the zero value is an empty set.
// Invariant: never contains the owning todo's own id.
type DependencySet struct {
	members map[TodoID]struct{}
}

// EmptyDependencySet returns a set with no members.
func EmptyDependencySet() DependencySet {
	return DependencySet{}
}

// NewDependencySet builds a set from ids, de-duplicating the input.
// self is the owning todo's id; its presence fails with ErrSelfDependency.
func NewDependencySet(ids []TodoID, self TodoID) (DependencySet, error) {
	members := make(map[TodoID]struct{}, len(ids))
	for _, id := range ids {
		if id == self {
			return DependencySet{}, fmt.Errorf("%w: todo %s", ErrSelfDependency, self)
		}
		members[id] = struct{}{}
	}
	if len(members) > MaxDependencies {
		return DependencySet{}, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyDependencies, len(members), MaxDependencies)
	}
	return DependencySet{members: members}, nil
}

// Add returns a new set including id.
func (s DependencySet) Add(id TodoID) (DependencySet, error) {
	if s.Contains(id) {
		return s, nil
	}
	if s.Len()+1 > MaxDependencies {
		return DependencySet{}, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyDependencies, s.Len()+1, MaxDependencies)
	}
	members := make(map[TodoID]struct{}, s.Len()+1)
	for m := range s.members {
		members[m] = struct{}{}
	}
	members[id] = struct{}{}
	return DependencySet{members: members}, nil
}

// Remove returns a new set without id.
func (s DependencySet) Remove(id TodoID) DependencySet {
	if !s.Contains(id) {
		return s
	}
	members := make(map[TodoID]struct{}, s.Len())
	for m := range s.members {
		if m != id {
			members[m] = struct{}{}
		}
	}
	return DependencySet{members: members}
}

func (s DependencySet) Contains(id TodoID) bool {
	_, ok := s.members[id]
	return ok
}

func (s DependencySet) Len() int { return len(s.members) }

func (s DependencySet) IsEmpty() bool { return len(s.members) == 0 }

// IDs returns the members sorted by their string form for stable output.
func (s DependencySet) IDs() []TodoID {
	ids := make([]TodoID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
