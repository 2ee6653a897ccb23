package motionplan

import "github.com/pkg/errors"

func newDuplicateNodeError(id int) error {
	return errors.Errorf("node id %d already present in tree", id)
}

func newDanglingParentError(childID, parentID int) error {
	return errors.Errorf("node %d references parent %d which is not in the tree", childID, parentID)
}

func newMultipleRootsError(count int) error {
	return errors.Errorf("tree must have exactly one root, found %d", count)
}

func newParentCycleError(id int) error {
	return errors.Errorf("cycle detected walking parent links from node %d", id)
}
