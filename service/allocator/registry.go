package allocator

import (
	"slices"

	"github.com/viant/mvplanning/model"
)

// registry holds the allocation list of every profile seen so far.
// It is guarded by the service lock.
type registry struct {
	lists map[string][]string
}

func newRegistry() *registry {
	return &registry{lists: make(map[string][]string)}
}

// ensure installs the profile roster unless the profile is already known
func (r *registry) ensure(profile *model.Profile) {
	if _, ok := r.lists[profile.ID]; ok {
		return
	}
	r.lists[profile.ID] = slices.Clone(profile.Vehicles)
}

// register replaces the profile roster
func (r *registry) register(profile *model.Profile) {
	r.lists[profile.ID] = slices.Clone(profile.Vehicles)
}

// roster returns a copy of the current allocation order
func (r *registry) roster(profileID string) ([]string, bool) {
	list, ok := r.lists[profileID]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

func (r *registry) contains(profileID, vehicle string) bool {
	return slices.Contains(r.lists[profileID], vehicle)
}

// rotate moves vehicle to the back of the profile list. The vehicle is
// located in the live list, so rotations by concurrent callers are kept.
func (r *registry) rotate(profileID, vehicle string) bool {
	list := r.lists[profileID]
	index := slices.Index(list, vehicle)
	if index < 0 {
		return false
	}
	copy(list[index:], list[index+1:])
	list[len(list)-1] = vehicle
	return true
}

// reserve moves the first vehicle accepted by match to the back of the
// profile list and returns it with its previous index. Concurrent walks of
// the same profile therefore start from different vehicles.
func (r *registry) reserve(profileID string, match func(vehicle string) bool) (string, int, bool) {
	for index, vehicle := range r.lists[profileID] {
		if !match(vehicle) {
			continue
		}
		r.rotate(profileID, vehicle)
		return vehicle, index, true
	}
	return "", -1, false
}

// release undoes a reservation by moving vehicle back to index
func (r *registry) release(profileID, vehicle string, index int) {
	list := r.lists[profileID]
	current := slices.Index(list, vehicle)
	if current < 0 {
		return
	}
	list = slices.Delete(list, current, current+1)
	index = min(index, len(list))
	r.lists[profileID] = slices.Insert(list, index, vehicle)
}

func (r *registry) profiles() []string {
	ret := make([]string, 0, len(r.lists))
	for id := range r.lists {
		ret = append(ret, id)
	}
	slices.Sort(ret)
	return ret
}
