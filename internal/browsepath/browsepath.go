// Package browsepath implements TranslateBrowsePathsToNodeIds: turning
// a starting NodeID plus a sequence of reference-type/browse-name hops
// into the set of nodes that path actually reaches in a given address
// space.
//
// It depends on the address space only through the narrow Resolver
// interface, so it has no import-time dependency on internal/addrspace
// and can be driven by a test double instead for unit testing.
package browsepath

import (
	"github.com/gopcua/opcua/ua"
)

// MaxPathDepth bounds the number of RelativePath elements translated
// in one call. Recursion depth here tracks path length, not address
// space size, so a pathological BrowsePath request can't blow the
// stack even without this — but an operator sending hundred-element
// paths is a client bug worth reporting distinctly.
const MaxPathDepth = 32

// RemainingPathIndexNone marks a BrowsePathTarget that was reached by
// the full relative path, as opposed to one truncated partway through
// (this implementation never produces partial targets, but the field
// exists on the wire type and must be set to something).
const RemainingPathIndexNone = 0xFFFFFFFF

// Resolver is the address-space surface TranslateBrowsePath needs:
// resolving a starting NodeID (which may be given as an alias or a
// parsed string) and taking one browse-name hop from a node.
type Resolver interface {
	ResolveNodeID(input interface{}) (*ua.NodeID, error)
	NodeExists(id *ua.NodeID) bool
	BrowseNodeByTargetName(nodeID *ua.NodeID, element *ua.RelativePathElement) []*ua.NodeID
}

// TranslateBrowsePath resolves a single BrowsePath against r, walking
// its RelativePath elements depth-first from the starting node and
// collecting every node reached by the full path.
func TranslateBrowsePath(r Resolver, bp *ua.BrowsePath) *ua.BrowsePathResult {
	if bp == nil || bp.RelativePath == nil || len(bp.RelativePath.Elements) == 0 {
		return &ua.BrowsePathResult{StatusCode: ua.StatusBadNothingToDo}
	}

	elements := bp.RelativePath.Elements
	last := elements[len(elements)-1]
	if last == nil || last.TargetName == nil || last.TargetName.Name == "" {
		return &ua.BrowsePathResult{StatusCode: ua.StatusBadBrowseNameInvalid}
	}
	if len(elements) > MaxPathDepth {
		return &ua.BrowsePathResult{StatusCode: ua.StatusBadTooManyMatches}
	}

	startID, err := r.ResolveNodeID(bp.NodeID)
	if err != nil || startID == nil || !r.NodeExists(startID) {
		return &ua.BrowsePathResult{StatusCode: ua.StatusBadNodeIDUnknown}
	}

	var targets []*ua.BrowsePathTarget
	descend(r, startID, elements, 0, &targets)

	if len(targets) == 0 {
		return &ua.BrowsePathResult{StatusCode: ua.StatusBadNoMatch}
	}
	return &ua.BrowsePathResult{StatusCode: ua.StatusOK, Targets: targets}
}

// descend walks one more RelativePathElement from nodeID. A dead-end
// branch simply contributes nothing; only nodes reached by the entire
// path are recorded, matching the distillation's "silent prune"
// behavior for partial matches.
func descend(r Resolver, nodeID *ua.NodeID, elements []*ua.RelativePathElement, i int, out *[]*ua.BrowsePathTarget) {
	children := r.BrowseNodeByTargetName(nodeID, elements[i])
	last := i == len(elements)-1

	for _, child := range children {
		if last {
			*out = append(*out, &ua.BrowsePathTarget{
				TargetID:           &ua.ExpandedNodeID{NodeID: child},
				RemainingPathIndex: RemainingPathIndexNone,
			})
			continue
		}
		descend(r, child, elements, i+1, out)
	}
}
