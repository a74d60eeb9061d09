package addrspace

import (
	"errors"
	"sync"

	"github.com/gopcua/opcua/ua"
)

// ErrNodeIDInvalid is returned by ResolveNodeID when the input is
// neither a *ua.NodeID nor a string this address space's alias table
// or ua.ParseNodeID can turn into one.
var ErrNodeIDInvalid = errors.New("addrspace: invalid NodeID")

// Reference is a single directed edge out of a node: "this node has a
// <ReferenceType> reference, forward or inverse, to NodeID." Browsing
// matches ReferenceType against forward reference-type browse names;
// AddReference stores the name as given and does not normalize an
// inverse name (see AddressSpace.NormalizeReferenceType). IsForward
// records which direction this particular edge instance runs.
type Reference struct {
	ReferenceType string
	NodeID        *ua.NodeID
	IsForward     bool
}

// Node is satisfied by every node-class variant in this package. The
// source threads a back-pointer from each node to its owning address
// space so methods like browseNodeByTargetName can resolve references
// against the rest of the graph; that pointer is dropped here —
// BrowseNodeByTargetName lives on AddressSpace and takes a node ID, so
// no node variant needs to know which address space it lives in.
type Node interface {
	NodeID() *ua.NodeID
	BrowseName() ua.QualifiedName
	DisplayName() ua.LocalizedText
	Description() ua.LocalizedText
	NodeClass() ua.NodeClass
	References() []*Reference
	AddReference(ref *Reference)
	ReadAttribute(attributeID uint32) *ua.DataValue
}

// base implements the attributes and reference list every node class
// shares; each node-class variant embeds it and adds its own fields
// and attribute handling on top.
type base struct {
	mu sync.RWMutex

	nodeID      *ua.NodeID
	browseName  ua.QualifiedName
	displayName ua.LocalizedText
	description ua.LocalizedText
	nodeClass   ua.NodeClass
	references  []*Reference
}

func (b *base) NodeID() *ua.NodeID             { return b.nodeID }
func (b *base) BrowseName() ua.QualifiedName   { return b.browseName }
func (b *base) DisplayName() ua.LocalizedText  { return b.displayName }
func (b *base) Description() ua.LocalizedText  { return b.description }
func (b *base) NodeClass() ua.NodeClass        { return b.nodeClass }

func (b *base) References() []*Reference {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Reference, len(b.references))
	copy(out, b.references)
	return out
}

func (b *base) AddReference(ref *Reference) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.references = append(b.references, ref)
}

func dataValue(v interface{}) *ua.DataValue {
	variant, err := ua.NewVariant(v)
	if err != nil {
		return &ua.DataValue{
			EncodingMask: ua.DataValueStatusCode,
			Status:       ua.StatusBadAttributeIDInvalid,
		}
	}
	return &ua.DataValue{
		EncodingMask: ua.DataValueValue | ua.DataValueStatusCode,
		Value:        variant,
		Status:       ua.StatusOK,
	}
}

var badAttribute = &ua.DataValue{
	EncodingMask: ua.DataValueStatusCode,
	Status:       ua.StatusBadAttributeIDInvalid,
}

// ReadAttribute answers the attributes every node class exposes:
// NodeId, NodeClass, BrowseName, DisplayName, Description. Variants
// override this to add their class-specific attributes and fall back
// to base.ReadAttribute for everything else.
func (b *base) ReadAttribute(attributeID uint32) *ua.DataValue {
	switch attributeID {
	case ua.AttributeIDNodeID:
		return dataValue(b.nodeID)
	case ua.AttributeIDNodeClass:
		return dataValue(int32(b.nodeClass))
	case ua.AttributeIDBrowseName:
		bn := b.browseName
		return dataValue(&bn)
	case ua.AttributeIDDisplayName:
		dn := b.displayName
		return dataValue(&dn)
	case ua.AttributeIDDescription:
		d := b.description
		return dataValue(&d)
	default:
		return badAttribute
	}
}

// BrowseNameString is the plain string form of a node's browse name,
// ignoring its namespace index — used wherever a reference type is
// looked up or stored by name alone.
func (b *base) BrowseNameString() string { return b.browseName.Name }

// ObjectNode models an OPC UA Object node: a browsable instance with
// no extra attributes beyond the common set.
type ObjectNode struct{ base }

// VariableNode models an OPC UA Variable node: a value-bearing leaf
// with a data type, value rank, access level, and the rest of the
// attributes that distinguish a Variable from a plain Object.
type VariableNode struct {
	base

	Value                   *ua.DataValue
	DataType                *ua.NodeID
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	UserAccessLevel         byte
	MinimumSamplingInterval float64
	Historizing             bool
}

func (n *VariableNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	switch attributeID {
	case ua.AttributeIDValue:
		if n.Value != nil {
			return n.Value
		}
		return badAttribute
	case ua.AttributeIDDataType:
		return dataValue(n.DataType)
	case ua.AttributeIDValueRank:
		return dataValue(n.ValueRank)
	case ua.AttributeIDArrayDimensions:
		if len(n.ArrayDimensions) == 0 {
			return badAttribute
		}
		return dataValue(n.ArrayDimensions)
	case ua.AttributeIDAccessLevel:
		return dataValue(n.AccessLevel)
	case ua.AttributeIDUserAccessLevel:
		return dataValue(n.UserAccessLevel)
	case ua.AttributeIDMinimumSamplingInterval:
		return dataValue(n.MinimumSamplingInterval)
	case ua.AttributeIDHistorizing:
		return dataValue(n.Historizing)
	default:
		return n.base.ReadAttribute(attributeID)
	}
}

// MethodNode models an OPC UA Method node. The distilled node-class
// set omits Method entirely; it is added back here since a server
// that can browse an AddressSpace but never exposes a single callable
// method is not a believable OPC UA server.
type MethodNode struct {
	base

	Executable     bool
	UserExecutable bool
}

func (n *MethodNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	switch attributeID {
	case ua.AttributeIDExecutable:
		return dataValue(n.Executable)
	case ua.AttributeIDUserExecutable:
		return dataValue(n.UserExecutable)
	default:
		return n.base.ReadAttribute(attributeID)
	}
}

// ObjectTypeNode models an OPC UA ObjectType node.
type ObjectTypeNode struct {
	base
	IsAbstract bool
}

func (n *ObjectTypeNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	if attributeID == ua.AttributeIDIsAbstract {
		return dataValue(n.IsAbstract)
	}
	return n.base.ReadAttribute(attributeID)
}

// VariableTypeNode models an OPC UA VariableType node.
type VariableTypeNode struct {
	base
	IsAbstract bool
}

func (n *VariableTypeNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	if attributeID == ua.AttributeIDIsAbstract {
		return dataValue(n.IsAbstract)
	}
	return n.base.ReadAttribute(attributeID)
}

// DataTypeNode models an OPC UA DataType node.
type DataTypeNode struct {
	base
	IsAbstract bool
}

func (n *DataTypeNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	if attributeID == ua.AttributeIDIsAbstract {
		return dataValue(n.IsAbstract)
	}
	return n.base.ReadAttribute(attributeID)
}

// ReferenceTypeNode models an OPC UA ReferenceType node: a named edge
// type with its inverse name, symmetry flag, and abstractness.
type ReferenceTypeNode struct {
	base

	InverseName ua.LocalizedText
	IsAbstract  bool
	Symmetric   bool
}

func (n *ReferenceTypeNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	switch attributeID {
	case ua.AttributeIDInverseName:
		iv := n.InverseName
		return dataValue(&iv)
	case ua.AttributeIDIsAbstract:
		return dataValue(n.IsAbstract)
	case ua.AttributeIDSymmetric:
		return dataValue(n.Symmetric)
	default:
		return n.base.ReadAttribute(attributeID)
	}
}

// ViewNode models an OPC UA View node: a curated subgraph entry point
// with its own event-notifier and loop-containment attributes.
type ViewNode struct {
	base

	ContainsNoLoops bool
	EventNotifier   byte
}

func (n *ViewNode) ReadAttribute(attributeID uint32) *ua.DataValue {
	switch attributeID {
	case ua.AttributeIDContainsNoLoops:
		return dataValue(n.ContainsNoLoops)
	case ua.AttributeIDEventNotifier:
		return dataValue(uint32(n.EventNotifier))
	default:
		return n.base.ReadAttribute(attributeID)
	}
}
