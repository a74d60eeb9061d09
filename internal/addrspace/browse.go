package addrspace

import "github.com/gopcua/opcua/ua"

// BrowseNodeByTargetName resolves a single RelativePathElement from
// nodeID: it walks nodeID's references looking for the ones that match
// the element's reference type (and direction), and returns the
// targets among those whose browse name equals element.TargetName.
//
// This is a method on AddressSpace rather than on Node — the source
// has every node hold a pointer back to its owning address space so
// it can look up its own references' targets' browse names; here the
// address space already owns every node, so the lookup just takes the
// node ID instead of carrying a back-pointer on every node value.
func (as *AddressSpace) BrowseNodeByTargetName(nodeID *ua.NodeID, element *ua.RelativePathElement) []*ua.NodeID {
	if element == nil || element.TargetName == nil {
		return nil
	}

	node, ok := as.FindObject(nodeID)
	if !ok {
		return nil
	}

	wantForward := !element.IsInverse
	// nil means the element's ReferenceTypeID was the null NodeId,
	// OPC-UA's "follow any reference type" sentinel.
	acceptedTypes := as.acceptedReferenceTypeNames(element.ReferenceTypeID, element.IncludeSubtypes)

	var targets []*ua.NodeID
	for _, ref := range node.References() {
		if ref.IsForward != wantForward {
			continue
		}
		if acceptedTypes != nil && !acceptedTypes[ref.ReferenceType] {
			continue
		}

		target, ok := as.FindObject(ref.NodeID)
		if !ok {
			continue
		}
		bn := target.BrowseName()
		if bn.NamespaceIndex == element.TargetName.NamespaceIndex && bn.Name == element.TargetName.Name {
			targets = append(targets, ref.NodeID)
		}
	}
	return targets
}

// acceptedReferenceTypeNames returns the set of reference-type browse
// names a RelativePathElement referencing referenceTypeID accepts:
// just that type's own forward name when includeSubtypes is false, or
// that type plus every registered subtype (reachable via "HasSubtype"
// references) when it is true. A null referenceTypeID (the zero
// NodeId i=0, which is what ConstructBrowsePath emits and OPC-UA uses
// as "follow any reference type") matches nil, reporting acceptance
// of every reference type rather than none.
func (as *AddressSpace) acceptedReferenceTypeNames(referenceTypeID *ua.NodeID, includeSubtypes bool) map[string]bool {
	accepted := make(map[string]bool)
	if referenceTypeID == nil || (referenceTypeID.Namespace() == 0 && referenceTypeID.IntID() == 0) {
		return nil
	}

	root, ok := as.FindObject(referenceTypeID)
	if !ok {
		return accepted
	}
	rootType, ok := root.(*ReferenceTypeNode)
	if !ok {
		return accepted
	}
	accepted[rootType.BrowseNameString()] = true

	if !includeSubtypes {
		return accepted
	}

	queue := []*ReferenceTypeNode{rootType}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, ref := range current.References() {
			if !ref.IsForward || ref.ReferenceType != "HasSubtype" {
				continue
			}
			sub, ok := as.FindObject(ref.NodeID)
			if !ok {
				continue
			}
			subType, ok := sub.(*ReferenceTypeNode)
			if !ok || accepted[subType.BrowseNameString()] {
				continue
			}
			accepted[subType.BrowseNameString()] = true
			queue = append(queue, subType)
		}
	}
	return accepted
}
