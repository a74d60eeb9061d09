// Package addrspace implements the server-side typed node graph OPC UA
// clients browse, read, write, and translate browse paths against: the
// AddressSpace registry, its multi-index lookups, the reference-type
// inverse table, and the node-class variants that sit on top of it.
//
// Node identity, attribute, and reference shapes reuse
// github.com/gopcua/opcua/ua's generated OPC UA types directly rather
// than re-declaring them — a NodeID here is a *ua.NodeID, a browse
// name a ua.QualifiedName, exactly as the rest of the stack sees them.
package addrspace

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gopcua/opcua/ua"
)

// ConstructionError reports a load-time invariant violation — a
// duplicate node ID, an unknown node class, or a malformed reference.
// These signal a corrupt address-space load rather than a runtime
// protocol condition, so they are never translated to a status code.
type ConstructionError struct {
	Op  string
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("addrspace: %s: %v", e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func constructionErrorf(op, format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{Op: op, Err: fmt.Errorf(format, args...)}
}

// AddressSpace is the registry and multi-index over every node a
// server exposes. Registration and index updates are exclusive; reads
// take a shared lock so browsing never observes a torn index update.
type AddressSpace struct {
	mu sync.RWMutex

	nodeByID map[string]Node
	aliases  map[string]*ua.NodeID

	objectsByBrowseName       map[string]Node
	objectTypesByBrowseName   map[string]Node
	variableTypesByBrowseName map[string]Node
	dataTypesByBrowseName     map[string]Node

	referenceTypesByBrowseName map[string]*ReferenceTypeNode
	referenceTypesByInverseName map[string]*ReferenceTypeNode
}

// New returns an empty AddressSpace ready for node registration.
func New() *AddressSpace {
	return &AddressSpace{
		nodeByID:                    make(map[string]Node),
		aliases:                     make(map[string]*ua.NodeID),
		objectsByBrowseName:         make(map[string]Node),
		objectTypesByBrowseName:     make(map[string]Node),
		variableTypesByBrowseName:   make(map[string]Node),
		dataTypesByBrowseName:       make(map[string]Node),
		referenceTypesByBrowseName:  make(map[string]*ReferenceTypeNode),
		referenceTypesByInverseName: make(map[string]*ReferenceTypeNode),
	}
}

func nodeKey(id *ua.NodeID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// Alias records a string key (typically an OPC UA well-known name
// like "HasTypeDefinition") that resolves directly to id.
func (as *AddressSpace) Alias(key string, id *ua.NodeID) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.aliases[key] = id
}

// ResolveNodeID accepts either an existing *ua.NodeID (returned as-is)
// or a string. Strings are first checked against the alias table, then
// parsed as OPC UA node ID syntax (i=, ns=N;i=, ns=N;s=, ns=N;g=,
// ns=N;b=); a bare numeric/string identifier with no namespace prefix
// defaults to namespace 0, exactly as ua.ParseNodeID already does.
func (as *AddressSpace) ResolveNodeID(input interface{}) (*ua.NodeID, error) {
	switch v := input.(type) {
	case *ua.NodeID:
		return v, nil
	case ua.NodeID:
		return &v, nil
	case string:
		as.mu.RLock()
		aliased, ok := as.aliases[v]
		as.mu.RUnlock()
		if ok {
			return aliased, nil
		}
		id, err := ua.ParseNodeID(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNodeIDInvalid, err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("%w: unsupported input type %T", ErrNodeIDInvalid, input)
	}
}

// FindObject returns the node registered under id, if any. The name is
// kept from the source API even though it returns any node class, not
// just Object — translating BrowsePaths and reading attributes both
// only ever need "the node with this id," regardless of class.
func (as *AddressSpace) FindObject(id *ua.NodeID) (Node, bool) {
	if id == nil {
		return nil, false
	}
	as.mu.RLock()
	defer as.mu.RUnlock()
	n, ok := as.nodeByID[nodeKey(id)]
	return n, ok
}

// NodeExists reports whether id is registered, without exposing the
// node itself. Used by browse-path translation to distinguish "the
// starting node doesn't exist" (Bad_NodeIdUnknown) from "it exists but
// the path leads nowhere" (Bad_NoMatch).
func (as *AddressSpace) NodeExists(id *ua.NodeID) bool {
	_, ok := as.FindObject(id)
	return ok
}

// FindReferenceType looks up a reference type by forward browse name,
// or by resolving name as a NodeId when it looks like one ("i=..." or
// "ns=...").
func (as *AddressSpace) FindReferenceType(name string) (*ReferenceTypeNode, bool) {
	if strings.HasPrefix(name, "i=") || strings.HasPrefix(name, "ns=") {
		id, err := as.ResolveNodeID(name)
		if err != nil {
			return nil, false
		}
		n, ok := as.FindObject(id)
		if !ok {
			return nil, false
		}
		rt, ok := n.(*ReferenceTypeNode)
		return rt, ok
	}

	as.mu.RLock()
	defer as.mu.RUnlock()
	rt, ok := as.referenceTypesByBrowseName[name]
	return rt, ok
}

// FindReferenceTypeFromInverseName looks up a reference type by its
// inverse browse name.
func (as *AddressSpace) FindReferenceTypeFromInverseName(name string) (*ReferenceTypeNode, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	rt, ok := as.referenceTypesByInverseName[name]
	return rt, ok
}

// FindDataType looks up a registered DataType node by browse name.
// The source defines this twice with an identical body; this is the
// single definition the spec resolves that to.
func (as *AddressSpace) FindDataType(name string) (*DataTypeNode, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	n, ok := as.dataTypesByBrowseName[name]
	if !ok {
		return nil, false
	}
	dt, ok := n.(*DataTypeNode)
	return dt, ok
}

// NormalizeReferenceType canonicalises a reference pair so the result
// always names the forward reference type. isForward nil is treated
// the same as a pointer to true ("absent" defaults to forward) —
// unlike the source's `=== null` check, which left `undefined` to mean
// something else.
func (as *AddressSpace) NormalizeReferenceType(referenceType string, isForward *bool) (string, bool) {
	forward := true
	if isForward != nil {
		forward = *isForward
	}

	as.mu.RLock()
	defer as.mu.RUnlock()

	if _, ok := as.referenceTypesByBrowseName[referenceType]; ok {
		return referenceType, forward
	}
	if rt, ok := as.referenceTypesByInverseName[referenceType]; ok {
		return rt.BrowseNameString(), !forward
	}
	return referenceType, forward
}

// InverseReferenceType returns the partner browse name for a forward
// or inverse reference type name.
func (as *AddressSpace) InverseReferenceType(name string) (string, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if rt, ok := as.referenceTypesByBrowseName[name]; ok {
		return rt.InverseName.Text, true
	}
	if rt, ok := as.referenceTypesByInverseName[name]; ok {
		return rt.BrowseNameString(), true
	}
	return "", false
}

// Register adds node to the address space's primary index and to the
// secondary browse-name index its node class maps to. It is the
// load-time entry point every node-class constructor funnels through.
func (as *AddressSpace) Register(node Node) error {
	if node.NodeID() == nil {
		return constructionErrorf("register", "node has no NodeID")
	}
	browseName := node.BrowseName()
	if browseName.Name == "" {
		return constructionErrorf("register", "node %s has empty browseName", node.NodeID())
	}
	for _, ref := range node.References() {
		if ref == nil || ref.ReferenceType == "" || ref.NodeID == nil {
			return constructionErrorf("register", "node %s has a reference with missing fields", node.NodeID())
		}
		if strings.HasPrefix(ref.ReferenceType, "i=") || strings.HasPrefix(ref.ReferenceType, "ns=") {
			return constructionErrorf("register", "node %s has reference type %q given as a NodeId, not a browse name", node.NodeID(), ref.ReferenceType)
		}
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	key := nodeKey(node.NodeID())
	if _, exists := as.nodeByID[key]; exists {
		return constructionErrorf("register", "duplicate nodeId %s", key)
	}

	switch node.NodeClass() {
	case ua.NodeClassObject, ua.NodeClassVariable:
		as.objectsByBrowseName[browseName.Name] = node
	case ua.NodeClassObjectType:
		as.objectTypesByBrowseName[browseName.Name] = node
	case ua.NodeClassVariableType:
		as.variableTypesByBrowseName[browseName.Name] = node
	case ua.NodeClassDataType:
		as.dataTypesByBrowseName[browseName.Name] = node
	case ua.NodeClassReferenceType:
		rt, ok := node.(*ReferenceTypeNode)
		if !ok {
			return constructionErrorf("register", "ReferenceType node %s is not a *ReferenceTypeNode", key)
		}
		if rt.InverseName.Text == "" {
			return constructionErrorf("register", "ReferenceType %s has empty inverseName", browseName.Name)
		}
		as.referenceTypesByBrowseName[browseName.Name] = rt
		as.referenceTypesByInverseName[rt.InverseName.Text] = rt
	case ua.NodeClassView, ua.NodeClassMethod:
		// Views and Methods are browsable the same way Objects are;
		// the source merges them into the same lookup bucket.
		as.objectsByBrowseName[browseName.Name] = node
	default:
		return constructionErrorf("register", "unknown nodeClass %v for node %s", node.NodeClass(), key)
	}

	as.nodeByID[key] = node
	return nil
}
